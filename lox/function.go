package lox

// Function is a user-defined function, method or lambda together with the
// environment it closes over. locals is the resolution map of the script
// that declared it, so the body keeps resolving correctly when it is
// called from a later run.
type Function struct {
	Name          string
	Decl          *FunctionExpr
	Closure       *Env
	IsInitializer bool

	locals Locals
}

// Arity reports the number of declared parameters, or -1 for a getter.
func (f *Function) Arity() int {
	return f.Decl.Arity()
}

func (f *Function) IsGetter() bool {
	return f.Decl.Getter
}

// bind returns a copy of f whose closure defines `this` as receiver.
func (f *Function) bind(receiver Value) *Function {
	env := newEnv(f.Closure)
	env.Define("this", receiver)
	return &Function{
		Name:          f.Name,
		Decl:          f.Decl,
		Closure:       env,
		IsInitializer: f.IsInitializer,
		locals:        f.locals,
	}
}

func (f *Function) String() string {
	if f.Name == "" {
		return "<fn>"
	}
	return "<fn " + f.Name + ">"
}
