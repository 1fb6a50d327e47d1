package internal

import (
	"time"
)

func defineGlobals(e *env) {
	defineClock(e)
}

func defineClock(e *env) {
	e.define("clock", &nativeFn{
		arityValue: 0,
		callFn: func(exec *exec, arguments []interface{}) (interface{}, error) {
			return loxNumber(float64(time.Now().UnixNano()) / float64(time.Second)), nil
		},
	})
}
