package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateCompanyRequest struct {
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	Country   string `json:"country"`
	VatNumber string `json:"vat_number"`
}

type Repository interface {
	Create(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id snowflake.ID) (*Company, error)
	List(ctx context.Context) ([]Company, error)
}

type Service interface {
	Create(ctx context.Context, req CreateCompanyRequest) (*Company, error)
	Get(ctx context.Context, id snowflake.ID) (*Company, error)
	List(ctx context.Context) ([]Company, error)
}
