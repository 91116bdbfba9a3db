package handlers

import (
	"database/sql"
	"net/http"

	intconfig "fleetops/internal/config"
	"fleetops/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/users
func GetUsers(c *gin.Context) {
	rows, err := intconfig.DB.Query(`
		SELECT id, name, username, email, role, status, created_at, updated_at
		FROM users ORDER BY id ASC
	`)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load users", err)
		return
	}
	defer rows.Close()

	out := []models.PublicUser{}
	for rows.Next() {
		var u models.PublicUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan user", err)
			return
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load users", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var u models.PublicUser
	err := intconfig.DB.QueryRow(`
		SELECT id, name, username, email, role, status, created_at, updated_at
		FROM users WHERE id=?
	`, id).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := intconfig.DB.Exec(`
		UPDATE users SET name=?, email=?, role=?, status=?, updated_at=NOW() WHERE id=?
	`, req.Name, req.Email, req.Role, req.Status, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update user", err)
		return
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		RespondError(c, http.StatusNotFound, "user not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if _, err := intconfig.DB.Exec(`DELETE FROM users WHERE id=?`, id); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
