package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// teamMemberRow is one payload row of a roster import
type teamMemberRow struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Store    string `json:"store"`
}

// GetTeamMembers returns the team roster
func GetTeamMembers(c *gin.Context) {
	role := c.Query("role")

	query := `
		SELECT id, full_name, email, phone, role, store, avatar, is_active, created_at, updated_at
		FROM team_members
		WHERE 1=1
	`
	args := []interface{}{}
	if role != "" {
		query += ` AND role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"members": []gin.H{}})
		return
	}
	defer rows.Close()

	var members []gin.H
	for rows.Next() {
		var member models.TeamMember
		var email, phone, storeName, avatar sql.NullString

		err := rows.Scan(
			&member.ID, &member.FullName, &email, &phone, &member.Role,
			&storeName, &avatar, &member.IsActive, &member.CreatedAt, &member.UpdatedAt,
		)
		if err != nil {
			continue
		}

		members = append(members, gin.H{
			"id":         member.ID,
			"full_name":  member.FullName,
			"email":      email.String,
			"phone":      phone.String,
			"role":       member.Role,
			"store":      storeName.String,
			"avatar":     avatar.String,
			"is_active":  member.IsActive,
			"created_at": member.CreatedAt,
			"updated_at": member.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// CreateTeamMember adds one member to the roster
func CreateTeamMember(c *gin.Context) {
	var req struct {
		FullName string  `json:"full_name" binding:"required"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Role     string  `json:"role" binding:"omitempty,oneof=manager inhouse_sales tele_caller marketing"`
		Store    *string `json:"store"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role == "" {
		req.Role = "inhouse_sales"
	}

	memberID, err := insertTeamMember(teamMemberRow{
		FullName: req.FullName,
		Email:    strValue(req.Email),
		Phone:    strValue(req.Phone),
		Role:     req.Role,
		Store:    strValue(req.Store),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team member"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Team member created successfully",
		"member_id": memberID,
	})
}

// UpdateTeamMember updates roster fields for an existing member
func UpdateTeamMember(c *gin.Context) {
	memberID := c.Param("id")

	if _, err := uuid.Parse(memberID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var req struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Role     *string `json:"role"`
		Store    *string `json:"store"`
		IsActive *bool   `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check if member exists
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM team_members WHERE id = $1)`
	if err := DB.QueryRow(checkQuery, memberID).Scan(&exists); err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		return
	}

	// Build dynamic update query
	query := "UPDATE team_members SET "
	args := []interface{}{}
	argIndex := 1

	if req.FullName != nil {
		query += "full_name = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, *req.FullName)
		argIndex++
	}
	if req.Email != nil {
		query += "email = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, *req.Email)
		argIndex++
	}
	if req.Phone != nil {
		query += "phone = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, *req.Phone)
		argIndex++
	}
	if req.Role != nil {
		query += "role = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, *req.Role)
		argIndex++
	}
	if req.Store != nil {
		query += "store = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, *req.Store)
		argIndex++
	}
	if req.IsActive != nil {
		query += "is_active = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, *req.IsActive)
		argIndex++
	}

	if len(args) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	// Remove trailing comma and add WHERE clause
	query = query[:len(query)-2] + ", updated_at = $" + strconv.Itoa(argIndex) + " WHERE id = $" + strconv.Itoa(argIndex+1)
	args = append(args, time.Now(), memberID)

	if _, err := DB.Exec(query, args...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team member updated successfully"})
}

// DeleteTeamMember removes a member from the roster
func DeleteTeamMember(c *gin.Context) {
	memberID := c.Param("id")

	if _, err := uuid.Parse(memberID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM team_members WHERE id = $1)`
	if err := DB.QueryRow(checkQuery, memberID).Scan(&exists); err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		return
	}

	if _, err := DB.Exec(`DELETE FROM team_members WHERE id = $1`, memberID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team member deleted successfully"})
}

// ImportTeamMembers runs a parsed roster import through the bulk tracker:
// rows are attempted strictly one at a time, a failed row never aborts the
// run, and the response carries per-row outcomes plus aggregate counts.
func ImportTeamMembers(c *gin.Context) {
	var req struct {
		Members []teamMemberRow `json:"members" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Members) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No members to import"})
		return
	}

	payloads := make([]interface{}, len(req.Members))
	for i, member := range req.Members {
		payloads[i] = member
	}

	result := bulkTracker.Run(c.Request.Context(), payloads, func(index int, payload interface{}) error {
		row, ok := payload.(teamMemberRow)
		if !ok {
			return fmt.Errorf("row %d: unexpected payload type", index)
		}
		if row.FullName == "" {
			return fmt.Errorf("row %d: full_name is required", index)
		}
		if row.Role == "" {
			row.Role = "inhouse_sales"
		}
		_, err := insertTeamMember(row)
		return err
	})

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import finished",
		"total":         result.Total,
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
		"items":         result.Items,
	})
}

func insertTeamMember(row teamMemberRow) (uuid.UUID, error) {
	memberID := uuid.New()
	avatar := utils.GenerateAvatarWithInitials(utils.Initials(row.FullName))
	now := time.Now()

	query := `
		INSERT INTO team_members (id, full_name, email, phone, role, store, avatar, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := DB.Exec(query,
		memberID, row.FullName, nullIfEmpty(row.Email), nullIfEmpty(row.Phone),
		row.Role, nullIfEmpty(row.Store), avatar, true, now, now,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return memberID, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
