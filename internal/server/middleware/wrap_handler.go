package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"

	"github.com/labstack/echo/v4"
)

var (
	echoContextType = reflect.TypeOf((*echo.Context)(nil)).Elem()
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
)

// WrapHandler adapts a typed handler to echo. Accepted shapes:
//
//	func(echo.Context) error
//	func(echo.Context) (T, error)
//	func(echo.Context, Req) error
//	func(echo.Context, Req) (T, error)
//
// Req must be a struct; it is filled by BindAndValidate before the call.
// Handlers returning only an error answer 204. A *Response result is sent
// with its own status, anything else is wrapped in a 200 Response.
func WrapHandler(f interface{}) echo.HandlerFunc {
	handler, err := wrapHandler(f)
	if err != nil {
		panic(err)
	}

	return handler
}

type handlerShape struct {
	fn      reflect.Value
	reqType reflect.Type // nil when the handler takes no request
	hasData bool
}

func inspectHandler(f interface{}) (*handlerShape, error) {
	fVal := reflect.ValueOf(f)
	if fVal.Kind() != reflect.Func {
		return nil, fmt.Errorf("invalid function passed to wrap handler: %v", fVal)
	}
	fTyp := fVal.Type()
	fName := runtime.FuncForPC(fVal.Pointer()).Name()

	numIn := fTyp.NumIn()
	if numIn < 1 || numIn > 2 {
		return nil, fmt.Errorf("[%s] invalid function arguments length: %d", fName, numIn)
	}
	if !fTyp.In(0).Implements(echoContextType) {
		return nil, fmt.Errorf("[%s] first argument must has type echo.Context", fName)
	}

	shape := &handlerShape{fn: fVal}
	if numIn == 2 {
		if kind := fTyp.In(1).Kind(); kind != reflect.Struct {
			return nil, fmt.Errorf("[%s] second argument must has type struct: %v", fName, kind)
		}
		shape.reqType = fTyp.In(1)
	}

	numOut := fTyp.NumOut()
	if numOut < 1 || numOut > 2 {
		return nil, fmt.Errorf("[%s] invalid function returns length: %d", fName, numOut)
	}
	if last := fTyp.Out(numOut - 1); !last.Implements(errorType) {
		return nil, fmt.Errorf("[%s] last return argument must has type error: %v", fName, last)
	}
	shape.hasData = numOut == 2

	return shape, nil
}

func wrapHandler(f interface{}) (echo.HandlerFunc, error) {
	shape, err := inspectHandler(f)
	if err != nil {
		return nil, err
	}

	return func(c echo.Context) error {
		args := []reflect.Value{reflect.ValueOf(c)}
		if shape.reqType != nil {
			req := reflect.New(shape.reqType)
			if err := BindAndValidate(c, req.Interface()); err != nil {
				return err
			}
			args = append(args, req.Elem())
		}

		out := shape.fn.Call(args)
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return errVal.Interface().(error)
		}

		if c.Response().Committed {
			return nil
		}
		if !shape.hasData {
			return c.NoContent(http.StatusNoContent)
		}

		data := out[0].Interface()
		if resp, ok := data.(*Response); ok {
			if resp.Status == http.StatusNoContent {
				return c.NoContent(http.StatusNoContent)
			}
			return c.JSON(resp.Status, resp)
		}
		return c.JSON(http.StatusOK, &Response{
			Status:  http.StatusOK,
			Success: true,
			Data:    data,
		})
	}, nil
}
