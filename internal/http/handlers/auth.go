package handlers

import (
	"database/sql"
	"net/http"
	"time"

	intconfig "fleetops/internal/config"
	"fleetops/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTSecret is set once by the router from the environment.
var JWTSecret = []byte("fleetops-dev-secret-change-me")

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         models.User
		passwordHash string
	)
	err := intconfig.DB.QueryRow(`
        SELECT id, name, username, email, password_hash, role, status
        FROM users
        WHERE email = ? OR username = ?
    `, req.Email, req.Email).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&passwordHash,
		&user.Role,
		&user.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			RespondError(c, http.StatusUnauthorized, "invalid email/username or password", nil)
		} else {
			RespondError(c, http.StatusInternalServerError, "failed to load user", err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "invalid email/username or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(JWTSecret)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user.ToPublic(),
	})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Role == "" {
		req.Role = "viewer"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to hash password", err)
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO users (name, username, email, password_hash, role, status, created_at, updated_at)
		VALUES (?,?,?,?,?,'active',NOW(),NOW())
	`, req.Name, req.Username, req.Email, string(hash), req.Role)
	if err != nil {
		RespondError(c, http.StatusConflict, "username or email already in use", err)
		return
	}
	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
