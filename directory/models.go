package directory

import "time"

// GORM models for the Postgres-backed store. Uniqueness is enforced by
// database indexes so concurrent Create calls race safely; the store maps
// constraint violations back to the package sentinels.

type PrincipalModel struct {
	ID           uint    `gorm:"primaryKey"`
	PrincipalID  string  `gorm:"column:principal_id;size:100;uniqueIndex;not null"`
	Email        string  `gorm:"size:255;uniqueIndex;not null"`
	Phone        *string `gorm:"size:30;uniqueIndex"`
	FullName     string  `gorm:"column:full_name;size:255;not null"`
	PasswordHash string  `gorm:"column:password_hash;size:255;not null"`
	Role         string  `gorm:"size:50;not null"`
	Status       string  `gorm:"size:50;not null;default:active"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	Roles []RoleModel `gorm:"many2many:principal_roles"`
}

func (PrincipalModel) TableName() string {
	return "principals"
}

type RoleModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;uniqueIndex;not null"`
	Description string    `gorm:"size:255"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`

	Permissions []PermissionModel `gorm:"many2many:role_permissions"`
}

func (RoleModel) TableName() string {
	return "roles"
}

type PermissionModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:120;uniqueIndex;not null"`
	Description string    `gorm:"size:255"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (PermissionModel) TableName() string {
	return "permissions"
}

func (m PrincipalModel) toDomain() Principal {
	phone := ""
	if m.Phone != nil {
		phone = *m.Phone
	}
	return Principal{
		ID:           m.PrincipalID,
		Email:        m.Email,
		Phone:        phone,
		FullName:     m.FullName,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Status:       m.Status,
		LastLoginAt:  m.LastLoginAt,
		CreatedAt:    m.CreatedAt,
	}
}

func (m RoleModel) toDomain() Role {
	role := Role{Name: m.Name, Description: m.Description}
	role.Permissions = make([]Permission, 0, len(m.Permissions))
	for _, perm := range m.Permissions {
		role.Permissions = append(role.Permissions, Permission{
			Name:        perm.Name,
			Description: perm.Description,
		})
	}
	return role
}
