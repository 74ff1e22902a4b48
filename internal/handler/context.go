package handler

type ContextKey string

var (
	PrincipalCtxKey   ContextKey = "principal"
	UserInfoCtxKey    ContextKey = "userInfo"
	JobCtxKey         ContextKey = "job"
	ApplicationCtxKey ContextKey = "application"
)
