package auth

import "github.com/gin-gonic/gin"

const (
	CtxOwnerID = "owner_id"
	CtxEmail   = "email"
)

// OwnerID returns the authenticated user id set by RequireUser.
func OwnerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxOwnerID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

func Email(c *gin.Context) string {
	return c.GetString(CtxEmail)
}
