package internal

type loxObject struct {
	class  *loxClass
	fields map[string]interface{}
}

// get looks at the object's own fields first, then at the class chain,
// binding any method found to this object.
func (o *loxObject) get(tk *token) (interface{}, error) {
	if val, ok := o.fields[tk.lexeme]; ok {
		return val, nil
	}
	if method := o.class.findMethod(tk.lexeme); method != nil {
		return method.bind(o), nil
	}
	return nil, runtimeErrorf(tk, errUndefinedProp, "Undefined property '%s'.", tk.lexeme)
}

func (o *loxObject) set(name *token, value interface{}) {
	o.fields[name.lexeme] = value
}

func (o *loxObject) String() string {
	return o.class.name + " instance"
}
