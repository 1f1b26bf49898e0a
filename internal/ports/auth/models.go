package auth

// Claims representa la información extraída del token.
// UserID identifica al paciente dueño de medicaciones y registros.
type Claims struct {
	UserID   string
	Email    string
	TenantID string
}
