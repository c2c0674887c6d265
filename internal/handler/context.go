package handler

type ContextKey string

var (
	RoleCtxKey         ContextKey = "role"
	SubCtxKey          ContextKey = "sub"
	CityCtx            ContextKey = "city"
	OptimizationRunCtx ContextKey = "optimizationRun"
)
