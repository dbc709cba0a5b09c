package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRecord struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	FirstName string    `gorm:"size:100;not null"`
	LastName  string    `gorm:"size:100;not null"`
	Phone     int64     `gorm:"not null"`
	Email     string    `gorm:"size:255;not null"`
	Address   string    `gorm:"size:255;not null"`
	ZipCode   string    `gorm:"size:20;not null"`
	City      string    `gorm:"size:100;not null"`
	Total     float64   `gorm:"type:decimal(12,2);not null"`
	Discount  float64   `gorm:"type:decimal(12,2);not null"`
	OrderDate time.Time `gorm:"not null;index:ix_orders_order_date"`
	Status    *string   `gorm:"size:16;index:ix_orders_status"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []cartItemRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

type cartItemRecord struct {
	ID       string  `gorm:"primaryKey;type:char(36)"`
	OrderID  string  `gorm:"type:char(36);not null;index:ix_order_items_order_id"`
	Position int     `gorm:"not null"`
	Title    string  `gorm:"size:255;not null"`
	ImageRef *string `gorm:"size:255"`
}

func (cartItemRecord) TableName() string { return "order_items" }

// orderEventRecord is the audit trail of status changes.
type orderEventRecord struct {
	ID         string    `gorm:"primaryKey;type:char(36)"`
	OrderID    string    `gorm:"type:char(36);not null;index:ix_order_events_order_id"`
	FromStatus *string   `gorm:"size:16"`
	ToStatus   string    `gorm:"size:16;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (orderEventRecord) TableName() string { return "order_events" }

// Repo is the gorm-backed Store.
type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }


// Migrate creates or updates the order tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderRecord{}, &cartItemRecord{}, &orderEventRecord{})
}

func (r *Repo) List(ctx context.Context) ([]Order, error) {
	var recs []orderRecord
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("order_date DESC").
		Order("id ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toOrder())
	}
	return out, nil
}

func (r *Repo) SetStatus(ctx context.Context, id string, status Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec orderRecord

		// row lock
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		to := string(status)
		now := time.Now()
		if err := tx.Model(&orderRecord{}).
			Where("id = ?", rec.ID).
			Updates(map[string]any{
				"status":     to,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		ev := orderEventRecord{
			ID:         uuid.NewString(),
			OrderID:    rec.ID,
			FromStatus: rec.Status,
			ToStatus:   to,
			CreatedAt:  now,
		}
		return tx.Create(&ev).Error
	})
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&cartItemRecord{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&orderEventRecord{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&orderRecord{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// rolls back the child deletes, which matched nothing anyway
			return ErrOrderNotFound
		}
		return nil
	})
}

// Create inserts o with its cart items, assigning an id when o has none.
// Used by the seed tool and tests.
func (r *Repo) Create(ctx context.Context, o Order) (Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	rec, err := fromOrder(o)
	if err != nil {
		return Order{}, err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return Order{}, err
	}
	return o, nil
}

// StatusHistory returns the recorded status changes of an order, oldest first.
func (r *Repo) StatusHistory(ctx context.Context, id string) ([]StatusEvent, error) {
	var evs []orderEventRecord
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&evs, "order_id = ?", id).Error; err != nil {
		return nil, err
	}
	out := make([]StatusEvent, 0, len(evs))
	for _, ev := range evs {
		out = append(out, StatusEvent{
			OrderID: ev.OrderID,
			From:    Status(ptrStr(ev.FromStatus)),
			To:      Status(ev.ToStatus),
			At:      ev.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (rec orderRecord) toOrder() Order {
	o := Order{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Phone:     rec.Phone,
		Email:     rec.Email,
		Address:   rec.Address,
		ZipCode:   rec.ZipCode,
		City:      rec.City,
		Total:     rec.Total,
		Discount:  rec.Discount,
		OrderDate: rec.OrderDate.UTC().Format(time.RFC3339),
		Status:    Status(ptrStr(rec.Status)),
		CartItems: make([]CartItem, 0, len(rec.Items)),
	}
	for _, it := range rec.Items {
		o.CartItems = append(o.CartItems, CartItem{Title: it.Title, Image: ptrStr(it.ImageRef)})
	}
	return o
}

func fromOrder(o Order) (orderRecord, error) {
	date := time.Now().UTC()
	if o.OrderDate != "" {
		d, err := time.Parse(time.RFC3339, o.OrderDate)
		if err != nil {
			return orderRecord{}, err
		}
		date = d
	}

	rec := orderRecord{
		ID:        o.ID,
		FirstName: o.FirstName,
		LastName:  o.LastName,
		Phone:     o.Phone,
		Email:     o.Email,
		Address:   o.Address,
		ZipCode:   o.ZipCode,
		City:      o.City,
		Total:     o.Total,
		Discount:  o.Discount,
		OrderDate: date,
		Status:    strPtr(strings.ToLower(string(o.Status))),
	}
	for i, it := range o.CartItems {
		rec.Items = append(rec.Items, cartItemRecord{
			ID:       uuid.NewString(),
			OrderID:  o.ID,
			Position: i,
			Title:    it.Title,
			ImageRef: strPtr(it.Image),
		})
	}
	return rec, nil
}

func ptrStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
