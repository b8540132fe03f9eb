package middlewares

import (
	"log"
	"os"
	"strconv"
	"strings"

	"rsv/src/db"
	"rsv/src/models"
	"rsv/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(401)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(401)
		return
	}

	db := db.GetDb()
	var member models.Member
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	db.Model(&models.Member{}).Where(&models.Member{ID: uint(uid)}).Find(&member)

	if uint(uid) != member.ID || member.ID < 1 {
		ctx.AbortWithStatus(401)
		return
	}
	ctx.Set("email", member.Email)
	ctx.Set("id", member.ID)
	ctx.Set("role", member.Role)
}

// StaffOnly guards the admin surface: hours editing, private events,
// calendar moves, messaging.
func StaffOnly(ctx *gin.Context) {
	role := ctx.GetString("role")
	if role != "admin" && role != "staff" {
		ctx.AbortWithStatus(403)
		return
	}
}
