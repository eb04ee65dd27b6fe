package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topevent/topevent-go/internal/api/request"
)

const authJSON = `{
	"token": "jwt-token",
	"user": {"id": 12, "firstName": "Ada", "lastName": "Lovelace", "mail": "ada@example.com", "role": "user"}
}`

func TestUserRepository_Login(t *testing.T) {
	t.Run("posts credentials and decodes the session", func(t *testing.T) {
		var gotBody map[string]any
		client := newBackend(t, func(r *gin.Engine) {
			r.POST("/user/login", func(c *gin.Context) {
				require.NoError(t, c.ShouldBindJSON(&gotBody))
				c.String(http.StatusOK, authJSON)
			})
		})

		sess, err := NewUserRepository(client).Login(context.Background(), request.LoginInput{
			Mail:     "ada@example.com",
			Password: "passw0rd",
		})
		require.NoError(t, err)
		assert.Equal(t, "jwt-token", sess.Token)
		assert.Equal(t, 12, sess.User.ID)

		assert.Equal(t, "ada@example.com", gotBody["mail"])
		assert.Equal(t, "passw0rd", gotBody["password"])
	})

	t.Run("invalid credentials never reach the network", func(t *testing.T) {
		hit := false
		client := newBackend(t, func(r *gin.Engine) {
			r.POST("/user/login", func(c *gin.Context) {
				hit = true
				c.String(http.StatusOK, authJSON)
			})
		})

		_, err := NewUserRepository(client).Login(context.Background(), request.LoginInput{Mail: "not-a-mail", Password: "passw0rd"})
		require.Error(t, err)
		assert.False(t, hit)
	})
}

func TestUserRepository_Register(t *testing.T) {
	var gotBody map[string]any
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/user/create", func(c *gin.Context) {
			require.NoError(t, c.ShouldBindJSON(&gotBody))
			c.String(http.StatusCreated, authJSON)
		})
	})

	sess, err := NewUserRepository(client).Register(context.Background(), request.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Mail:      "ada@example.com",
		Password:  "passw0rd",
		Role:      "user",
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", sess.Token)
	assert.Equal(t, "Ada", gotBody["firstName"])
}

func TestUserRepository_Update(t *testing.T) {
	var gotMethod string
	client := newBackend(t, func(r *gin.Engine) {
		r.PATCH("/user/12", func(c *gin.Context) {
			gotMethod = c.Request.Method
			c.JSON(http.StatusOK, gin.H{"data": gin.H{
				"id": 12, "firstName": "Ada", "lastName": "King", "mail": "ada@example.com", "role": "user",
			}})
		})
	})

	user, err := NewUserRepository(client).Update(context.Background(), 12, request.UserUpdateInput{
		FirstName: "Ada",
		LastName:  "King",
		Mail:      "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "King", user.LastName)
	assert.Equal(t, http.MethodPatch, gotMethod)
}
