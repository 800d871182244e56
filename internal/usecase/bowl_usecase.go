package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type BowlUsecase struct {
	bowlRepo repo.BowlRepository
}

// DI
func NewBowlUsecase(bowlRepo repo.BowlRepository) *BowlUsecase {
	return &BowlUsecase{bowlRepo: bowlRepo}
}

type BowlIngredientInput struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Calories int64  `json:"calories"`
	Quantity int64  `json:"quantity"`
}

type CreateBowlInput struct {
	Name        string                `json:"name"`
	Ingredients []BowlIngredientInput `json:"ingredients"`
}

type BowlOutput struct {
	model.Bowl
	Ingredients []model.BowlIngredient `json:"ingredients"`
}

// 価格とカロリーは作成時点で合計して確定
func (u *BowlUsecase) CreateBowl(ctx context.Context, customerID int64, in CreateBowlInput) (BowlOutput, error) {
	if customerID <= 0 {
		return BowlOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return BowlOutput{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if len(in.Ingredients) == 0 {
		return BowlOutput{}, NewHTTPError(http.StatusBadRequest, "ingredients required")
	}

	var price, calories int64
	ings := make([]model.BowlIngredient, 0, len(in.Ingredients))

	for _, ing := range in.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return BowlOutput{}, NewHTTPError(http.StatusBadRequest, "invalid ingredient name")
		}
		if ing.Price < 0 || ing.Calories < 0 {
			return BowlOutput{}, NewHTTPError(http.StatusBadRequest, "invalid ingredient")
		}
		if ing.Quantity < 1 {
			return BowlOutput{}, NewHTTPError(http.StatusBadRequest, "invalid ingredient quantity")
		}

		price += ing.Price * ing.Quantity
		calories += ing.Calories * ing.Quantity

		ings = append(ings, model.BowlIngredient{
			Name:     strings.TrimSpace(ing.Name),
			Price:    ing.Price,
			Calories: ing.Calories,
			Quantity: ing.Quantity,
		})
	}

	bowl, err := u.bowlRepo.Create(ctx, model.Bowl{
		CustomerID:    customerID,
		Name:          name,
		Price:         price,
		TotalCalories: calories,
	}, ings)
	if err != nil {
		return BowlOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return BowlOutput{Bowl: bowl, Ingredients: ings}, nil
}

func (u *BowlUsecase) ListMyBowls(ctx context.Context, customerID int64) ([]model.Bowl, error) {
	if customerID <= 0 {
		return []model.Bowl{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	bowls, err := u.bowlRepo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return []model.Bowl{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return bowls, nil
}

// 他人のボウルは「存在しない扱い」にする
func (u *BowlUsecase) GetMyBowlDetail(ctx context.Context, customerID int64, bowlID int64) (BowlOutput, error) {
	if customerID <= 0 {
		return BowlOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bowlID <= 0 {
		return BowlOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	b, err := u.bowlRepo.FindByID(ctx, bowlID)
	if err == repo.ErrNotFound {
		return BowlOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return BowlOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if b.CustomerID != customerID {
		return BowlOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	ings, err := u.bowlRepo.ListIngredients(ctx, bowlID)
	if err != nil {
		return BowlOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return BowlOutput{Bowl: b, Ingredients: ings}, nil
}
