package repository

import (
	"context"

	"storeadmin/internal/domain/model"
)

// 顧客プロフィール（IDプロバイダのsubで一意）
type CustomerRepository interface {
	FindByClerkID(ctx context.Context, clerkID string) (model.Customer, error)
	//無ければ作る
	GetOrCreate(ctx context.Context, clerkID string) (model.Customer, error)
	//空の項目だけ埋める
	FillProfile(ctx context.Context, customerID string, fullName, email, mobile string) error
}
