package models

import "time"

// Seeded role names. A user's administrative capability is resolved once,
// when the actor context is built, not re-derived per check.
const (
	RoleAdministrator = "Administrator"
	RoleManager       = "Manager"
	RoleDeclarant     = "Declarant"
)

type Role struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

// Client is the tenant root: users, invitations, contracts and general-data
// entries all scope to a client.
type Client struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

// User with a nil ClientID is unscoped staff; a non-nil ClientID confines
// the user to that tenant's records unless their role is Administrator.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	RoleID       uint      `gorm:"not null" json:"role_id"`
	Role         Role      `json:"role"`
	ClientID     *uint     `json:"client_id,omitempty"`
	Client       *Client   `json:"client,omitempty"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Invitation is a pre-authorized, single-use registration token. Used is
// monotonic: once true it never reverts.
type Invitation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"size:36;uniqueIndex;not null" json:"token"`
	RoleID    uint      `gorm:"not null" json:"role_id"`
	Role      Role      `json:"role"`
	ClientID  *uint     `json:"client_id,omitempty"`
	Client    *Client   `json:"client,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
}

// PasswordResetToken is single-use by deletion: completing a reset removes
// the row in the same transaction that rewrites the password hash.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"size:36;uniqueIndex;not null" json:"token"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// Gateway and Terminal are globally shared lookups, not tenant-scoped.
type Gateway struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

type Terminal struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

type ExportContract struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number    string    `gorm:"size:50;not null" json:"number"`
	Date      time.Time `gorm:"not null" json:"date"`
	ClientID  uint      `gorm:"not null;index" json:"client_id"`
	Client    Client    `json:"client"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type GeneralData struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID         uint      `gorm:"not null;index" json:"client_id"`
	UserID           uint      `gorm:"not null" json:"user_id"`
	GatewayID        uint      `gorm:"not null" json:"gateway_id"`
	TerminalID       uint      `gorm:"not null" json:"terminal_id"`
	ExportContractID uint      `gorm:"not null;index" json:"export_contract_id"`
	Vehicle          string    `gorm:"size:100;not null" json:"vehicle"`
	InvoiceNumber    string    `gorm:"size:50;not null" json:"invoice_number"`
	DeliveryAddress  string    `json:"delivery_address"`
	CreatedAt        time.Time `json:"created_at"`
}

func (GeneralData) TableName() string { return "general_data" }

// Log is the append-only audit ledger. Rows are only ever inserted; no
// update or delete path exists for this entity.
type Log struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Action    string    `gorm:"size:10;not null" json:"action"`
	TableName string    `gorm:"size:50;not null;index:idx_logs_record" json:"table_name"`
	RecordID  uint      `gorm:"not null;index:idx_logs_record" json:"record_id"`
	Detail    JSONB     `gorm:"type:jsonb" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	JTI       string     `gorm:"primaryKey;size:64" json:"jti"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// All is the automigration set, leaf entities first.
func All() []any {
	return []any{
		&Role{}, &Client{}, &User{}, &Invitation{}, &PasswordResetToken{},
		&Gateway{}, &Terminal{}, &ExportContract{}, &GeneralData{},
		&Log{}, &Session{},
	}
}
