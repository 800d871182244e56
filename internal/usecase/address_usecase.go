package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"

	"gorm.io/gorm"
)

type AddressUsecase struct {
	addresses repository.AddressRepository
}

func NewAddressUsecase(addresses repository.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

type AddressCreateRequest struct {
	ReceiverName  string `json:"receiver_name"`
	PhoneNumber   string `json:"phone_number"`
	StreetAddress string `json:"street_address"`
	Ward          string `json:"ward"`
	District      string `json:"district"`
	City          string `json:"city"`
}

type AddressUpdateRequest struct {
	ReceiverName  string `json:"receiver_name"`
	PhoneNumber   string `json:"phone_number"`
	StreetAddress string `json:"street_address"`
	Ward          string `json:"ward"`
	District      string `json:"district"`
	City          string `json:"city"`
}

// 一覧はデフォルト住所が先頭。
// 選択の既定値は「デフォルト→先頭→なし」の順で決まる
func (u *AddressUsecase) List(ctx context.Context, customerID int64) ([]model.Address, error) {
	if customerID <= 0 {
		return []model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.addresses.ListByCustomerID(ctx, customerID)
	if err != nil {
		return []model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

// 配送先の既定値を返す（無ければ ok=false）
func (u *AddressUsecase) ResolveDefault(ctx context.Context, customerID int64) (model.Address, bool, error) {
	list, err := u.List(ctx, customerID)
	if err != nil {
		return model.Address{}, false, err
	}
	if len(list) == 0 {
		return model.Address{}, false, nil
	}
	//ListByCustomerIDがis_default DESCで返すので先頭が既定値
	return list[0], true, nil
}

func (u *AddressUsecase) Create(ctx context.Context, customerID int64, req AddressCreateRequest) (model.Address, error) {
	if customerID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateAddressFields(req.ReceiverName, req.PhoneNumber, req.StreetAddress, req.Ward, req.District, req.City); err != nil {
		return model.Address{}, err
	}

	//最初の1件は自動でデフォルトにする
	existing, err := u.addresses.ListByCustomerID(ctx, customerID)
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.addresses.Create(ctx, model.Address{
		CustomerID:    customerID,
		ReceiverName:  strings.TrimSpace(req.ReceiverName),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		StreetAddress: strings.TrimSpace(req.StreetAddress),
		Ward:          strings.TrimSpace(req.Ward),
		District:      strings.TrimSpace(req.District),
		City:          strings.TrimSpace(req.City),
		IsDefault:     len(existing) == 0,
	})
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *AddressUsecase) Update(ctx context.Context, customerID int64, addressID int64, req AddressUpdateRequest) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateAddressFields(req.ReceiverName, req.PhoneNumber, req.StreetAddress, req.Ward, req.District, req.City); err != nil {
		return err
	}

	owned, err := u.addresses.IsOwnedByCustomer(ctx, addressID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	err = u.addresses.Update(ctx, model.Address{
		ID:            addressID,
		ReceiverName:  strings.TrimSpace(req.ReceiverName),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		StreetAddress: strings.TrimSpace(req.StreetAddress),
		Ward:          strings.TrimSpace(req.Ward),
		District:      strings.TrimSpace(req.District),
		City:          strings.TrimSpace(req.City),
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AddressUsecase) Delete(ctx context.Context, customerID int64, addressID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.addresses.IsOwnedByCustomer(ctx, addressID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	err = u.addresses.Delete(ctx, addressID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, customerID int64, addressID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.addresses.SetDefault(ctx, customerID, addressID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateAddressFields(receiver, phone, street, ward, district, city string) error {
	if strings.TrimSpace(receiver) == "" {
		return NewHTTPError(http.StatusBadRequest, "receiver_name is required")
	}
	if strings.TrimSpace(phone) == "" {
		return NewHTTPError(http.StatusBadRequest, "phone_number is required")
	}
	if strings.TrimSpace(street) == "" {
		return NewHTTPError(http.StatusBadRequest, "street_address is required")
	}
	if strings.TrimSpace(ward) == "" {
		return NewHTTPError(http.StatusBadRequest, "ward is required")
	}
	if strings.TrimSpace(district) == "" {
		return NewHTTPError(http.StatusBadRequest, "district is required")
	}
	if strings.TrimSpace(city) == "" {
		return NewHTTPError(http.StatusBadRequest, "city is required")
	}
	return nil
}
