package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	categoryRepo  repo.CategoryRepository
	colorRepo     repo.ColorRepository
	orderItemRepo repo.OrderItemRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	colorRepo repo.ColorRepository,
	orderItemRepo repo.OrderItemRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		colorRepo:     colorRepo,
		orderItemRepo: orderItemRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
	}
}

// GET /:storeId/products の入力
type ListProductsInput struct {
	CategoryID string
	ColorID    string
	IsFeatured *bool
}

// ストアフロント向け。アーカイブ済みは出さない
func (u *ProductUsecase) ListPublicProducts(ctx context.Context, storeID string, in ListProductsInput) ([]model.Product, error) {
	notArchived := false
	items, err := u.productRepo.List(ctx, repo.ProductFilter{
		StoreID:    storeID,
		CategoryID: strings.TrimSpace(in.CategoryID),
		ColorID:    strings.TrimSpace(in.ColorID),
		IsFeatured: in.IsFeatured,
		IsArchived: &notArchived,
	})
	if err != nil {
		return []model.Product{}, dbError(err)
	}
	return items, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, storeID string, productID string) (model.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Product id is required")
	}

	p, err := u.productRepo.FindInStore(ctx, storeID, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, dbError(err)
	}

	if p.IsArchived {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

// ダッシュボードの商品一覧の絞り込み
type AdminListProductsInput struct {
	CategoryID string
	ColorID    string
	IsArchived *bool
}

func (u *ProductUsecase) AdminListProducts(ctx context.Context, storeID string, in AdminListProductsInput) ([]model.Product, error) {
	items, err := u.productRepo.List(ctx, repo.ProductFilter{
		StoreID:    storeID,
		CategoryID: strings.TrimSpace(in.CategoryID),
		ColorID:    strings.TrimSpace(in.ColorID),
		IsArchived: in.IsArchived,
	})
	if err != nil {
		return []model.Product{}, dbError(err)
	}
	return items, nil
}

type AdminProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	CategoryID  string
	ColorID     string
	IsFeatured  bool
	IsArchived  bool
}

func (u *ProductUsecase) validateProductInput(ctx context.Context, storeID string, in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if !in.Price.IsPositive() {
		return NewHTTPError(http.StatusBadRequest, "Price must be > 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return NewHTTPError(http.StatusBadRequest, "Category id is required")
	}
	if strings.TrimSpace(in.ColorID) == "" {
		return NewHTTPError(http.StatusBadRequest, "Color id is required")
	}

	//カテゴリ・カラーは同じストアのもの
	if _, err := u.categoryRepo.FindInStore(ctx, storeID, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		return dbError(err)
	}
	if _, err := u.colorRepo.FindInStore(ctx, storeID, in.ColorID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "invalid color")
		}
		return dbError(err)
	}
	return nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, storeID string, in AdminProductInput) (model.Product, error) {
	if err := u.validateProductInput(ctx, storeID, in); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		StoreID:     storeID,
		CategoryID:  in.CategoryID,
		ColorID:     in.ColorID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		IsFeatured:  in.IsFeatured,
		IsArchived:  in.IsArchived,
	})
	if err != nil {
		return model.Product{}, dbError(err)
	}
	return p, nil
}

// 在庫は変えない（PUT /inventory で変える）
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, storeID string, productID string, in AdminProductInput) (model.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Product id is required")
	}
	if err := u.validateProductInput(ctx, storeID, in); err != nil {
		return model.Product{}, err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		StoreID:     storeID,
		CategoryID:  in.CategoryID,
		ColorID:     in.ColorID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		IsFeatured:  in.IsFeatured,
		IsArchived:  in.IsArchived,
	})
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, dbError(err)
	}

	p, err := u.productRepo.FindInStore(ctx, storeID, productID)
	if err != nil {
		return model.Product{}, dbError(err)
	}
	return p, nil
}

// 注文から参照されている商品は消せない（アーカイブを使う）
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, storeID string, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return NewHTTPError(http.StatusBadRequest, "Product id is required")
	}

	n, err := u.orderItemRepo.CountByProduct(ctx, productID)
	if err != nil {
		return dbError(err)
	}
	if n > 0 {
		return NewHTTPError(http.StatusConflict, "product is referenced by orders")
	}

	err = u.productRepo.Delete(ctx, storeID, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, actor string, storeID string, productID string, newStock int64, reason string) error {
	if actor == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(productID) == "" {
		return NewHTTPError(http.StatusBadRequest, "Product id is required")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	//変更前の在庫（before）
	p, err := u.productRepo.FindInStore(ctx, storeID, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return dbError(err)
	}

	beforeJSON := fmt.Sprintf(`{"stock":%d}`, p.Stock)
	afterJSON := fmt.Sprintf(`{"stock":%d}`, newStock)

	//在庫の現在値を更新
	if err := u.inventoryRepo.SetStock(ctx, productID, newStock); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return dbError(err)
	}

	//履歴を作成（差分）
	adj := model.InventoryAdjustment{
		ProductID: productID,
		Actor:     actor,
		Delta:     newStock - p.Stock,
		Reason:    strings.TrimSpace(reason),
		CreatedAt: time.Now(),
	}
	if err := u.inventoryRepo.CreateAdjustment(ctx, adj); err != nil {
		return dbError(err)
	}

	//監査ログを作成（在庫更新）
	//「誰が」「何を」「どの対象に」「どう変えたか」を残す
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		StoreID:      storeID,
		Actor:        actor,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	}); err != nil {
		return dbError(err)
	}

	return nil
}
