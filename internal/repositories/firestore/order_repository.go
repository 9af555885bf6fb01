package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/premiun-cakes/api/internal/domain"
	platform "github.com/premiun-cakes/api/internal/platform/firestore"
)

const ordersCollection = "orders"

// ErrEmptyOrderCode indicates a persistence call without a generated code.
var ErrEmptyOrderCode = errors.New("order repository: order code is empty")

// OrderRepository stores orders in Firestore, one document per order keyed
// by the public order code.
type OrderRepository struct {
	provider *platform.Provider
	clock    func() time.Time
}

// NewOrderRepository builds a repository on top of the shared provider.
// clock may be nil, in which case time.Now is used.
func NewOrderRepository(provider *platform.Provider, clock func() time.Time) *OrderRepository {
	if clock == nil {
		clock = time.Now
	}
	return &OrderRepository{provider: provider, clock: clock}
}

type orderDocument struct {
	Code           string              `firestore:"code"`
	Items          []orderItemDocument `firestore:"items"`
	CustomerName   string              `firestore:"customerName,omitempty"`
	DeliveryMethod string              `firestore:"deliveryMethod"`
	Address        string              `firestore:"address,omitempty"`
	PaymentMethod  string              `firestore:"paymentMethod"`
	SubtotalCents  int64               `firestore:"subtotalCents"`
	DeliveryCents  int64               `firestore:"deliveryCents"`
	TotalCents     int64               `firestore:"totalCents"`
	CreatedAt      time.Time           `firestore:"createdAt"`
}

type orderItemDocument struct {
	Kind      string   `firestore:"kind"`
	FlavorID  string   `firestore:"flavorId,omitempty"`
	Batter    string   `firestore:"massa,omitempty"`
	Addons    []string `firestore:"addons,omitempty"`
	FillingID string   `firestore:"fillingId,omitempty"`
	Topper    string   `firestore:"topoType,omitempty"`
	Quantity  int      `firestore:"qty"`
}

// ExistsByCode reports whether an order document already holds the code.
func (r *OrderRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, ErrEmptyOrderCode
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return false, err
	}
	_, err = client.Collection(ordersCollection).Doc(code).Get(ctx)
	if err != nil {
		if platform.IsNotFound(err) {
			return false, nil
		}
		return false, platform.WrapError("orders.exists", err)
	}
	return true, nil
}

// Create writes the order inside a transaction, failing with a conflict
// when the code document already exists.
func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.CreatedOrder, error) {
	if order.Code == "" {
		return domain.CreatedOrder{}, ErrEmptyOrderCode
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return domain.CreatedOrder{}, err
	}

	createdAt := r.clock().UTC()
	doc := toOrderDocument(order, createdAt)
	ref := client.Collection(ordersCollection).Doc(order.Code)

	err = client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return tx.Create(ref, doc)
	})
	if err != nil {
		return domain.CreatedOrder{}, platform.WrapError("orders.create", err)
	}

	return domain.CreatedOrder{
		Code:       order.Code,
		TotalCents: order.Totals.TotalCents,
		CreatedAt:  createdAt,
	}, nil
}

func toOrderDocument(order domain.Order, createdAt time.Time) orderDocument {
	items := make([]orderItemDocument, 0, len(order.Items))
	for _, item := range order.Items {
		doc := orderItemDocument{
			Kind:     string(item.Kind),
			Quantity: item.Quantity(),
		}
		switch {
		case item.Vulcao != nil:
			doc.FlavorID = item.Vulcao.FlavorID
			doc.Batter = item.Vulcao.Batter
			doc.Addons = item.Vulcao.Addons
		case item.Bolo != nil:
			doc.Batter = item.Bolo.Batter
			doc.FillingID = item.Bolo.FillingID
			doc.Topper = string(item.Bolo.Topper)
		}
		items = append(items, doc)
	}
	return orderDocument{
		Code:           order.Code,
		Items:          items,
		CustomerName:   order.CustomerName,
		DeliveryMethod: string(order.DeliveryMethod),
		Address:        order.Address,
		PaymentMethod:  string(order.PaymentMethod),
		SubtotalCents:  order.Totals.SubtotalCents,
		DeliveryCents:  order.Totals.DeliveryCents,
		TotalCents:     order.Totals.TotalCents,
		CreatedAt:      createdAt,
	}
}
