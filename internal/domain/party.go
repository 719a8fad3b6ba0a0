package domain

import (
	"strings"
	"time"
)

// PartyType identifies the counterparty of a document.
type PartyType string

const (
	PartyTypeSupplier PartyType = "supplier"
	PartyTypeClient   PartyType = "client"
)

// ParsePartyType validates a party type string.
func ParsePartyType(s string) (PartyType, error) {
	switch PartyType(strings.ToLower(strings.TrimSpace(s))) {
	case PartyTypeSupplier:
		return PartyTypeSupplier, nil
	case PartyTypeClient:
		return PartyTypeClient, nil
	default:
		return "", ErrInvalidPartyType
	}
}

// Party holds the contact fields shared by suppliers and clients.
type Party struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PartyDetails holds the editable contact fields.
type PartyDetails struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

func newParty(id string, details PartyDetails) (Party, error) {
	p := Party{ID: id, CreatedAt: time.Now().UTC()}
	if err := p.Update(details); err != nil {
		return Party{}, err
	}
	return p, nil
}

// Update replaces the contact fields.
func (p *Party) Update(details PartyDetails) error {
	name := strings.TrimSpace(details.Name)
	if name == "" {
		return ErrPartyNameRequired
	}
	p.Name = name
	p.Phone = strings.TrimSpace(details.Phone)
	p.Email = strings.TrimSpace(details.Email)
	p.Address = strings.TrimSpace(details.Address)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (p *Party) RecordID() string { return p.ID }

// Supplier sells goods to the business.
type Supplier struct {
	Party `bson:",inline"`
}

// NewSupplier creates a supplier.
func NewSupplier(id string, details PartyDetails) (*Supplier, error) {
	p, err := newParty(id, details)
	if err != nil {
		return nil, err
	}
	return &Supplier{Party: p}, nil
}

func (s *Supplier) Clone() *Supplier {
	c := *s
	return &c
}

// Client buys goods from the business.
type Client struct {
	Party `bson:",inline"`
}

// NewClient creates a client.
func NewClient(id string, details PartyDetails) (*Client, error) {
	p, err := newParty(id, details)
	if err != nil {
		return nil, err
	}
	return &Client{Party: p}, nil
}

func (c *Client) Clone() *Client {
	cp := *c
	return &cp
}
