package model

import "time"

// Teacher はヨガ講師を表す。
// APIからは読み取り専用で、マイグレーションによって登録される。
type Teacher struct {
	ID        string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
