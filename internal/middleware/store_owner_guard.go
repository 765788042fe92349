package middleware

import (
	"net/http"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"github.com/labstack/echo/v4"
)

const CtxStoreKey = "store" // model.Store

//:storeIdのストアがログイン中のオーナーのものか確認します。
//AuthIdentity(required)の後ろで使う

func StoreOwnerGuard(stores repo.StoreRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sub := SubjectFrom(c)
			if sub == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			storeID := c.Param("storeId")
			if storeID == "" {
				return c.JSON(http.StatusBadRequest, errorJSON("Store id is required"))
			}

			s, err := stores.FindByID(c.Request().Context(), storeID)
			if err == repo.ErrNotFound {
				return c.JSON(http.StatusNotFound, errorJSON("store not found"))
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			//他人のストアは拒否
			if s.UserID != sub {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			c.Set(CtxStoreKey, s)
			return next(c)
		}
	}
}

func StoreFrom(c echo.Context) (model.Store, bool) {
	s, ok := c.Get(CtxStoreKey).(model.Store)
	return s, ok
}
