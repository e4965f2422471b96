package middleware

import (
	"strings"

	"b2b-print-designer/auth"
	"b2b-print-designer/internal/errors"
	"b2b-print-designer/internal/policy"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// ActorProvider resolves a verified user id into the policy snapshot.
type ActorProvider interface {
	ActorByID(id uint64) (policy.Actor, error)
}

type Auth struct {
	Tokens *auth.Manager
	Users  ActorProvider
}

func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		var token string
		tokenQuery := ctx.Query("token")

		if authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		} else if tokenQuery != "" {
			token = tokenQuery
		} else {
			ctx.Error(errors.Unauthorized("Please log in.", nil))
			ctx.Abort()
			return
		}

		userID, err := m.Tokens.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		actor, err := m.Users.ActorByID(userID)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid user!", err))
			ctx.Abort()
			return
		}

		ctx.Set(actorKey, actor)
		ctx.Next()
	}
}

// RequireBypass restricts a route group to site operators.
func (m *Auth) RequireBypass() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !policy.CanBypassOrg(CurrentActor(ctx)) {
			ctx.Error(errors.Forbidden("Not allowed.", nil))
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// RequireOrgAdmin restricts a route group to org admins (or bypass).
func (m *Auth) RequireOrgAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !policy.CanApproveAsAdmin(CurrentActor(ctx)) {
			ctx.Error(errors.Forbidden("Only Organization Admins can do that.", nil))
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentActor returns the actor snapshot set by AuthMiddleWare. Routes
// outside the authenticated group get the zero Actor, which every policy
// predicate denies.
func CurrentActor(c *gin.Context) policy.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(policy.Actor); ok {
			return a
		}
	}
	return policy.Actor{}
}

// SetActorForTest injects an actor directly, for handler tests.
func SetActorForTest(c *gin.Context, a policy.Actor) {
	c.Set(actorKey, a)
}
