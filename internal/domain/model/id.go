package model

import "github.com/google/uuid"

// 主キーは作成時にUUIDを振る（指定済みならそのまま）
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
