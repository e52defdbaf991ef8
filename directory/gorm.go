package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store is the GORM/Postgres Directory and Seeder implementation.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres, verifies connectivity, and returns a Store.
// TranslateError is required so unique-index violations surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("directory: postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStore wraps an existing GORM handle. The handle must have been opened
// with TranslateError enabled.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the directory schema.
func (s *Store) AutoMigrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&PrincipalModel{},
		&RoleModel{},
		&PermissionModel{},
	)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) FindByEmail(ctx context.Context, email string) (Principal, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *Store) FindByPhone(ctx context.Context, phone string) (Principal, error) {
	if phone == "" {
		return Principal{}, ErrNotFound
	}
	return s.findOne(ctx, "phone = ?", phone)
}

func (s *Store) FindByID(ctx context.Context, id string) (Principal, error) {
	return s.findOne(ctx, "principal_id = ?", id)
}

func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (Principal, error) {
	if principal, err := s.FindByEmail(ctx, identifier); err == nil {
		return principal, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Principal{}, err
	}
	return s.FindByPhone(ctx, identifier)
}

func (s *Store) findOne(ctx context.Context, query string, arg any) (Principal, error) {
	var model PrincipalModel
	err := s.db.WithContext(ctx).Where(query, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, fmt.Errorf("directory query: %w", err)
	}
	return model.toDomain(), nil
}

func (s *Store) Create(ctx context.Context, input CreateInput) (Principal, error) {
	status := input.Status
	if status == "" {
		status = StatusActive
	}

	model := PrincipalModel{
		PrincipalID:  input.ID,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		Status:       status,
	}
	if input.Phone != "" {
		phone := input.Phone
		model.Phone = &phone
	}

	err := s.db.WithContext(ctx).Create(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Principal{}, s.classifyDuplicate(ctx, input)
		}
		return Principal{}, fmt.Errorf("directory create: %w", err)
	}

	return model.toDomain(), nil
}

// classifyDuplicate decides which unique index a duplicate-key violation hit.
// Email is re-checked before phone so a doubly-conflicting insert maps to the
// same conflict the engine's pre-check would have reported.
func (s *Store) classifyDuplicate(ctx context.Context, input CreateInput) error {
	if _, err := s.FindByEmail(ctx, input.Email); err == nil {
		return ErrDuplicateEmail
	}
	if input.Phone != "" {
		if _, err := s.FindByPhone(ctx, input.Phone); err == nil {
			return ErrDuplicatePhone
		}
	}
	return ErrDuplicateEmail
}

func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result := s.db.WithContext(ctx).
		Model(&PrincipalModel{}).
		Where("principal_id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("directory update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RecordLogin(ctx context.Context, id string, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&PrincipalModel{}).
		Where("principal_id = ?", id).
		Update("last_login_at", at)
	if result.Error != nil {
		return fmt.Errorf("directory record login: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]Principal, error) {
	var models []PrincipalModel
	if err := s.db.WithContext(ctx).Order("principal_id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("directory list: %w", err)
	}
	out := make([]Principal, 0, len(models))
	for _, model := range models {
		out = append(out, model.toDomain())
	}
	return out, nil
}

func (s *Store) RolesOf(ctx context.Context, id string) ([]Role, error) {
	var model PrincipalModel
	err := s.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Where("principal_id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory roles: %w", err)
	}

	out := make([]Role, 0, len(model.Roles))
	for _, role := range model.Roles {
		out = append(out, role.toDomain())
	}
	return out, nil
}

func (s *Store) PermissionsOfRoles(ctx context.Context, roleNames []string) ([]Permission, error) {
	if len(roleNames) == 0 {
		return nil, nil
	}

	var models []PermissionModel
	err := s.db.WithContext(ctx).
		Distinct("permissions.id", "permissions.name", "permissions.description").
		Joins("JOIN role_permissions ON role_permissions.permission_model_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_model_id").
		Where("roles.name IN ?", roleNames).
		Order("permissions.name").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("directory permissions: %w", err)
	}

	out := make([]Permission, 0, len(models))
	for _, model := range models {
		out = append(out, Permission{Name: model.Name, Description: model.Description})
	}
	return out, nil
}

func (s *Store) UpsertRole(ctx context.Context, name, description string) error {
	role := RoleModel{Name: name, Description: description}
	err := s.db.WithContext(ctx).
		Where(RoleModel{Name: name}).
		FirstOrCreate(&role).Error
	if err != nil {
		return fmt.Errorf("directory upsert role: %w", err)
	}
	return nil
}

func (s *Store) UpsertPermission(ctx context.Context, name, description string) error {
	perm := PermissionModel{Name: name, Description: description}
	err := s.db.WithContext(ctx).
		Where(PermissionModel{Name: name}).
		FirstOrCreate(&perm).Error
	if err != nil {
		return fmt.Errorf("directory upsert permission: %w", err)
	}
	return nil
}

func (s *Store) GrantPermissions(ctx context.Context, roleName string, permissionNames []string) error {
	if len(permissionNames) == 0 {
		return nil
	}

	var role RoleModel
	err := s.db.WithContext(ctx).
		Preload("Permissions").
		Where("name = ?", roleName).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("directory grant: %w", err)
	}

	held := make(map[string]struct{}, len(role.Permissions))
	for _, perm := range role.Permissions {
		held[perm.Name] = struct{}{}
	}

	var missing []PermissionModel
	for _, name := range permissionNames {
		if _, ok := held[name]; ok {
			continue
		}
		var perm PermissionModel
		if err := s.db.WithContext(ctx).Where("name = ?", name).First(&perm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("directory grant: unknown permission %q", name)
			}
			return fmt.Errorf("directory grant: %w", err)
		}
		missing = append(missing, perm)
	}

	if len(missing) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&role).Association("Permissions").Append(&missing); err != nil {
		return fmt.Errorf("directory grant: %w", err)
	}
	return nil
}

func (s *Store) AssignRole(ctx context.Context, principalID, roleName string) error {
	var principal PrincipalModel
	err := s.db.WithContext(ctx).
		Preload("Roles").
		Where("principal_id = ?", principalID).
		First(&principal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("directory assign role: %w", err)
	}

	for _, role := range principal.Roles {
		if role.Name == roleName {
			return nil
		}
	}

	var role RoleModel
	if err := s.db.WithContext(ctx).Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("directory assign role: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&principal).Association("Roles").Append(&role); err != nil {
		return fmt.Errorf("directory assign role: %w", err)
	}
	return nil
}
