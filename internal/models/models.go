package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User ids are assigned by the store as max(id)+1, never by the database.
type User struct {
	ID           uint     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username     string   `gorm:"uniqueIndex;not null"           json:"username"`
	PasswordHash string   `gorm:"not null"                       json:"-"`
	Email        string   `gorm:"not null"                       json:"email"`
	Phone        string   `gorm:"not null"                       json:"phone,omitempty"`
	Role         string   `gorm:"not null;index"                 json:"role"`
	Permissions  []string `gorm:"serializer:json;type:text"      json:"permissions"`
}

type Role struct {
	ID          uint     `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string   `gorm:"uniqueIndex;not null"      json:"name"`
	Permissions []string `gorm:"serializer:json;type:text" json:"permissions"`
}

// Claim is a named permission in the catalogue.
type Claim struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;not null"     json:"name"`
	Description string `gorm:"not null"                 json:"description"`
}

type TestObject struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;not null"     json:"name"`
	Description string `gorm:"not null"                 json:"description"`
}

func All() []any {
	return []any{&User{}, &Role{}, &Claim{}, &TestObject{}}
}
