package main

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory store used when DEV_MODE is set and no MySQL DSN is configured.
// Handlers fall back here whenever db == nil, so the whole API works without
// external services (and so handler tests run without a database).

var (
	devMu sync.Mutex

	devCategories = []Category{
		{ID: 1, Name: "Bouquets"},
		{ID: 2, Name: "Vase Arrangements"},
		{ID: 3, Name: "Gift Sets"},
	}
	devNextCatID int64 = 4

	devProducts []Product

	devCoupons      []Coupon
	devNextCouponID int64 = 1

	devShipping = []ShippingMethod{
		{ID: 1, Name: "Standard Delivery", Price: decimal.NewFromInt(50)},
		{ID: 2, Name: "Express Delivery", Price: decimal.NewFromInt(120)},
	}
	devNextShippingID int64 = 3

	devOrders []Order

	devEvents      []Event
	devNextEventID int64 = 1

	devUsers      []User
	devNextUserID int64 = 1

	devCards map[string]ValentineCard

	devSettings = Settings{StoreName: "HanFlower"}
)

func devNow() string {
	return time.Now().Format(time.RFC3339)
}

// --- products ---

func DevGetProducts() []Product {
	devMu.Lock()
	defer devMu.Unlock()
	cp := make([]Product, len(devProducts))
	copy(cp, devProducts)
	return cp
}

func DevGetProduct(id string) (Product, bool) {
	devMu.Lock()
	defer devMu.Unlock()
	for _, p := range devProducts {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func DevAddProduct(p Product) string {
	devMu.Lock()
	defer devMu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = devNow()
	for _, c := range devCategories {
		if c.ID == p.CategoryID {
			p.Category = c.Name
			break
		}
	}
	devProducts = append([]Product{p}, devProducts...)
	return p.ID
}

func DevUpdateProduct(p Product) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devProducts {
		if devProducts[i].ID == p.ID {
			p.CreatedAt = devProducts[i].CreatedAt
			p.Category = ""
			for _, c := range devCategories {
				if c.ID == p.CategoryID {
					p.Category = c.Name
					break
				}
			}
			if p.ImageURL == "" {
				p.ImageURL = devProducts[i].ImageURL
			}
			devProducts[i] = p
			return true
		}
	}
	return false
}

func DevDeleteProduct(id string) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devProducts {
		if devProducts[i].ID == id {
			devProducts = append(devProducts[:i], devProducts[i+1:]...)
			return true
		}
	}
	return false
}

// --- categories ---

func DevGetCategories() []Category {
	devMu.Lock()
	defer devMu.Unlock()
	cp := make([]Category, len(devCategories))
	copy(cp, devCategories)
	return cp
}

func DevGetCategory(id int64) (Category, bool) {
	devMu.Lock()
	defer devMu.Unlock()
	for _, c := range devCategories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func DevAddCategory(name string) Category {
	devMu.Lock()
	defer devMu.Unlock()
	c := Category{ID: devNextCatID, Name: name}
	devNextCatID++
	devCategories = append(devCategories, c)
	return c
}

func DevUpdateCategory(id int64, name string) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devCategories {
		if devCategories[i].ID == id {
			devCategories[i].Name = name
			for j := range devProducts {
				if devProducts[j].CategoryID == id {
					devProducts[j].Category = name
				}
			}
			return true
		}
	}
	return false
}

func DevDeleteCategory(id int64) bool {
	devMu.Lock()
	defer devMu.Unlock()
	idx := -1
	for i, c := range devCategories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	devCategories = append(devCategories[:idx], devCategories[idx+1:]...)
	for j := range devProducts {
		if devProducts[j].CategoryID == id {
			devProducts[j].CategoryID = 0
			devProducts[j].Category = ""
		}
	}
	return true
}

// --- coupons ---

func DevGetCoupons() []Coupon {
	devMu.Lock()
	defer devMu.Unlock()
	cp := make([]Coupon, len(devCoupons))
	copy(cp, devCoupons)
	return cp
}

func DevGetCouponByCode(code string) (Coupon, bool) {
	devMu.Lock()
	defer devMu.Unlock()
	for _, c := range devCoupons {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Coupon{}, false
}

func DevAddCoupon(c Coupon) Coupon {
	devMu.Lock()
	defer devMu.Unlock()
	c.ID = devNextCouponID
	devNextCouponID++
	devCoupons = append(devCoupons, c)
	return c
}

func DevUpdateCoupon(c Coupon) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devCoupons {
		if devCoupons[i].ID == c.ID {
			c.Used = devCoupons[i].Used
			devCoupons[i] = c
			return true
		}
	}
	return false
}

func DevDeleteCoupon(id int64) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devCoupons {
		if devCoupons[i].ID == id {
			devCoupons = append(devCoupons[:i], devCoupons[i+1:]...)
			return true
		}
	}
	return false
}

func DevIncrementCouponUse(code string) {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devCoupons {
		if strings.EqualFold(devCoupons[i].Code, code) {
			devCoupons[i].Used++
			return
		}
	}
}

// --- shipping methods ---

func DevGetShippingMethods() []ShippingMethod {
	devMu.Lock()
	defer devMu.Unlock()
	cp := make([]ShippingMethod, len(devShipping))
	copy(cp, devShipping)
	return cp
}

func DevGetShippingMethod(id int64) (ShippingMethod, bool) {
	devMu.Lock()
	defer devMu.Unlock()
	for _, m := range devShipping {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

func DevAddShippingMethod(m ShippingMethod) ShippingMethod {
	devMu.Lock()
	defer devMu.Unlock()
	m.ID = devNextShippingID
	devNextShippingID++
	devShipping = append(devShipping, m)
	return m
}

func DevUpdateShippingMethod(m ShippingMethod) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devShipping {
		if devShipping[i].ID == m.ID {
			devShipping[i] = m
			return true
		}
	}
	return false
}

func DevDeleteShippingMethod(id int64) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devShipping {
		if devShipping[i].ID == id {
			devShipping = append(devShipping[:i], devShipping[i+1:]...)
			return true
		}
	}
	return false
}

// --- orders ---

func DevInsertOrder(o Order) {
	devMu.Lock()
	defer devMu.Unlock()
	devOrders = append([]Order{o}, devOrders...)
}

func DevGetOrder(id string) (Order, bool) {
	devMu.Lock()
	defer devMu.Unlock()
	for _, o := range devOrders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

func DevGetOrders() []Order {
	devMu.Lock()
	defer devMu.Unlock()
	cp := make([]Order, len(devOrders))
	copy(cp, devOrders)
	return cp
}

func DevUpdateOrderStatus(id string, status OrderStatus) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devOrders {
		if devOrders[i].ID == id {
			devOrders[i].Status = status
			return true
		}
	}
	return false
}

func DevSetOrderSlip(id, slipURL string) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devOrders {
		if devOrders[i].ID == id {
			devOrders[i].SlipURL = slipURL
			if devOrders[i].Status == OrderPending {
				devOrders[i].Status = OrderSlipUploaded
			}
			return true
		}
	}
	return false
}

// --- events ---

func DevGetEvents() []Event {
	devMu.Lock()
	defer devMu.Unlock()
	cp := make([]Event, len(devEvents))
	copy(cp, devEvents)
	return cp
}

func DevAddEvent(e Event) Event {
	devMu.Lock()
	defer devMu.Unlock()
	e.ID = devNextEventID
	devNextEventID++
	e.CreatedAt = devNow()
	devEvents = append([]Event{e}, devEvents...)
	return e
}

func DevUpdateEvent(e Event) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devEvents {
		if devEvents[i].ID == e.ID {
			e.CreatedAt = devEvents[i].CreatedAt
			if e.ImageURL == "" {
				e.ImageURL = devEvents[i].ImageURL
			}
			devEvents[i] = e
			return true
		}
	}
	return false
}

func DevDeleteEvent(id int64) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devEvents {
		if devEvents[i].ID == id {
			devEvents = append(devEvents[:i], devEvents[i+1:]...)
			return true
		}
	}
	return false
}

// --- users ---

func DevGetUsers() []User {
	devMu.Lock()
	defer devMu.Unlock()
	cp := make([]User, len(devUsers))
	copy(cp, devUsers)
	return cp
}

func DevAddUser(u User) User {
	devMu.Lock()
	defer devMu.Unlock()
	u.ID = devNextUserID
	devNextUserID++
	u.CreatedAt = devNow()
	devUsers = append(devUsers, u)
	return u
}

func DevUpdateUser(u User) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devUsers {
		if devUsers[i].ID == u.ID {
			u.CreatedAt = devUsers[i].CreatedAt
			devUsers[i] = u
			return true
		}
	}
	return false
}

func DevDeleteUser(id int64) bool {
	devMu.Lock()
	defer devMu.Unlock()
	for i := range devUsers {
		if devUsers[i].ID == id {
			devUsers = append(devUsers[:i], devUsers[i+1:]...)
			return true
		}
	}
	return false
}

// --- valentine cards ---

func DevAddCard(card ValentineCard) {
	devMu.Lock()
	defer devMu.Unlock()
	if devCards == nil {
		devCards = make(map[string]ValentineCard)
	}
	devCards[card.Code] = card
}

func DevGetCard(code string) (ValentineCard, bool) {
	devMu.Lock()
	defer devMu.Unlock()
	card, ok := devCards[code]
	return card, ok
}

// --- settings ---

func DevGetSettings() Settings {
	devMu.Lock()
	defer devMu.Unlock()
	return devSettings
}

func DevSaveSettings(s Settings) {
	devMu.Lock()
	defer devMu.Unlock()
	devSettings = s
}
