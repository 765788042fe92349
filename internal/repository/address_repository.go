package repository

import (
	"context"

	"storeadmin/internal/domain/model"
)

// 顧客の住所を保存・取得する窓口
type AddressRepository interface {
	//Create は住所を新規作成する。
	//作成後はaddress（IDなどが埋まったもの）を返す
	Create(ctx context.Context, address model.CustomerAddress) (model.CustomerAddress, error)

	//顧客が持つ住所一覧を返す（defaultが先頭）
	ListByCustomer(ctx context.Context, customerID string) ([]model.CustomerAddress, error)

	//顧客のものでなければErrNotFound
	FindOwned(ctx context.Context, addressID, customerID string) (model.CustomerAddress, error)

	//住所の削除。
	Delete(ctx context.Context, addressID, customerID string) error

	//顧客のdefaultを全部外す
	ClearDefault(ctx context.Context, customerID string) error

	//住所の切り替えを行う。
	SetDefault(ctx context.Context, customerID, addressID string) error

	CountByCustomer(ctx context.Context, customerID string) (int64, error)
}
