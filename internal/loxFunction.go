package internal

import "fmt"

type callable interface {
	arity() int
	call(exec *exec, arguments []interface{}) (interface{}, error)
}

type loxFunction struct {
	declaration   *fnStmt
	closure       *env
	isInitializer bool
}

type nativeFn struct {
	arityValue int
	callFn     func(exec *exec, arguments []interface{}) (interface{}, error)
}

func (n *nativeFn) arity() int {
	return n.arityValue
}

func (n *nativeFn) call(exec *exec, arguments []interface{}) (interface{}, error) {
	return n.callFn(exec, arguments)
}

func (n *nativeFn) String() string {
	return "<native fn>"
}

func (f *loxFunction) arity() int {
	return len(f.declaration.params)
}

func (f *loxFunction) call(exec *exec, arguments []interface{}) (interface{}, error) {
	if len(arguments) != f.arity() {
		return nil, runtimeErrorf(
			f.declaration.name,
			errInvalidNumberArguments,
			"Expected %d arguments but got %d.",
			f.arity(),
			len(arguments),
		)
	}

	environment := newEnv(f.closure)
	for i, param := range f.declaration.params {
		environment.define(param.lexeme, arguments[i])
	}

	result, err := exec.executeBlock(f.declaration.body, environment)
	if err != nil {
		return nil, err
	}

	// An initializer always hands back the instance, with or without an
	// explicit return.
	if f.isInitializer {
		return f.closure.getAt(0, "this"), nil
	}
	if ret, isReturn := result.(*returnValue); isReturn {
		return ret.value, nil
	}
	return nil, nil
}

func (f *loxFunction) bind(object *loxObject) *loxFunction {
	environment := newEnv(f.closure)
	environment.define("this", object)
	return &loxFunction{
		declaration:   f.declaration,
		closure:       environment,
		isInitializer: f.isInitializer,
	}
}

func (f *loxFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.name.lexeme)
}
