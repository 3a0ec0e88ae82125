package models

type UserName struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type Geolocation struct {
	Lat  string `json:"lat"`
	Long string `json:"long"`
}

type UserAddress struct {
	City        string      `json:"city"`
	Street      string      `json:"street"`
	Number      int         `json:"number"`
	Zipcode     string      `json:"zipcode"`
	Geolocation Geolocation `json:"geolocation"`
}

type User struct {
	ID       int         `json:"id"`
	Email    string      `json:"email" validate:"omitempty,email"`
	Username string      `json:"username"`
	Password string      `json:"password,omitempty"`
	Name     UserName    `json:"name"`
	Address  UserAddress `json:"address"`
	Phone    string      `json:"phone"`
}

type UserQuery struct {
	Limit int       `query:"limit" validate:"omitempty,gt=0"`
	Sort  SortOrder `query:"sort" validate:"omitempty,oneof=asc desc"`
}

// UserPayload is the body of a user creation.
type UserPayload struct {
	Email    string      `json:"email" validate:"required,email"`
	Username string      `json:"username" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Name     UserName    `json:"name"`
	Address  UserAddress `json:"address"`
	Phone    string      `json:"phone"`
}

// User returns the payload as a user record without an id.
func (p UserPayload) User() User {
	return User{
		Email:    p.Email,
		Username: p.Username,
		Password: p.Password,
		Name:     p.Name,
		Address:  p.Address,
		Phone:    p.Phone,
	}
}

// UserPatch carries the fields of a user update. Nil fields are kept.
type UserPatch struct {
	Email    *string      `json:"email,omitempty" validate:"omitempty,email"`
	Username *string      `json:"username,omitempty" validate:"omitempty,min=1"`
	Password *string      `json:"password,omitempty" validate:"omitempty,min=1"`
	Name     *UserName    `json:"name,omitempty"`
	Address  *UserAddress `json:"address,omitempty"`
	Phone    *string      `json:"phone,omitempty"`
}

// Apply returns user with the patch fields set.
func (p UserPatch) Apply(user User) User {
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.Password != nil {
		user.Password = *p.Password
	}
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Address != nil {
		user.Address = *p.Address
	}
	if p.Phone != nil {
		user.Phone = *p.Phone
	}
	return user
}
