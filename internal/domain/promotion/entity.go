package promotion

import (
	"errors"
	"time"
)

var (
	ErrPromotionExpired     = errors.New("promotion has expired")
	ErrPromotionNotYetValid = errors.New("promotion is not yet valid")
	ErrPromotionInactive    = errors.New("promotion is inactive")
	ErrInvalidTitle         = errors.New("promotion title must not be empty")
	ErrInvalidValidityRange = errors.New("validFrom must be before validTo")
)

type Promotion struct {
	id          int64
	title       Title
	description string
	isActive    bool
	validFrom   *time.Time
	validTo     *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func NewPromotion(title string, description string, validFrom, validTo *time.Time) (*Promotion, error) {
	t, err := NewTitle(title)
	if err != nil {
		return nil, err
	}

	if validFrom != nil && validTo != nil && !validFrom.Before(*validTo) {
		return nil, ErrInvalidValidityRange
	}

	return &Promotion{
		title:       t,
		description: description,
		isActive:    true,
		validFrom:   validFrom,
		validTo:     validTo,
	}, nil
}

func ReconstructPromotion(
	id int64,
	title Title,
	description string,
	isActive bool,
	validFrom, validTo *time.Time,
	createdAt, updatedAt time.Time,
) *Promotion {
	return &Promotion{
		id:          id,
		title:       title,
		description: description,
		isActive:    isActive,
		validFrom:   validFrom,
		validTo:     validTo,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p *Promotion) IsValidAt(t time.Time) bool {
	if p.validFrom != nil && t.Before(*p.validFrom) {
		return false
	}
	if p.validTo != nil && t.After(*p.validTo) {
		return false
	}
	return true
}

// ValidateClaimable reports why a claim at time t must be refused, nil if the
// promotion is claimable.
func (p *Promotion) ValidateClaimable(t time.Time) error {
	if !p.isActive {
		return ErrPromotionInactive
	}
	if p.validFrom != nil && t.Before(*p.validFrom) {
		return ErrPromotionNotYetValid
	}
	if !p.IsValidAt(t) {
		return ErrPromotionExpired
	}
	return nil
}

func (p *Promotion) ID() int64            { return p.id }
func (p *Promotion) Title() Title         { return p.title }
func (p *Promotion) Description() string  { return p.description }
func (p *Promotion) IsActive() bool       { return p.isActive }
func (p *Promotion) ValidFrom() *time.Time { return p.validFrom }
func (p *Promotion) ValidTo() *time.Time   { return p.validTo }
func (p *Promotion) CreatedAt() time.Time  { return p.createdAt }
func (p *Promotion) UpdatedAt() time.Time  { return p.updatedAt }
