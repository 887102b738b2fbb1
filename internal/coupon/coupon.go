package coupon

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Coupon struct {
	Code        string `json:"code"`
	Discount    string `json:"discount"`
	Description string `json:"description"`
}

var surpriseCoupons = []Coupon{
	{Code: "SURPRISE50", Discount: "50% OFF", Description: "Valid on orders above ₹299"},
	{Code: "YUMMY25", Discount: "25% OFF", Description: "Valid on all restaurants"},
	{Code: "FEAST30", Discount: "30% OFF", Description: "Valid on orders above ₹199"},
	{Code: "HUNGRY40", Discount: "40% OFF", Description: "Valid on weekend orders"},
	{Code: "DELISH20", Discount: "20% OFF", Description: "Valid on first 3 orders"},
	{Code: "TASTE35", Discount: "35% OFF", Description: "Valid on orders above ₹399"},
}

// All returns a copy of the surprise coupon pool.
func All() []Coupon {
	return append([]Coupon(nil), surpriseCoupons...)
}

// Picker hands out a uniformly random coupon from the pool.
type Picker struct {
	mu      sync.Mutex
	rng     *rand.Rand
	coupons []Coupon
}

func NewPicker(src rand.Source) *Picker {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Picker{rng: rand.New(src), coupons: All()}
}

func (p *Picker) Surprise() Coupon {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.coupons[p.rng.Intn(len(p.coupons))]
}

type Handler struct {
	picker *Picker
}

func NewHandler(picker *Picker) *Handler {
	return &Handler{picker: picker}
}

func (h *Handler) Surprise(c *gin.Context) {
	c.JSON(http.StatusOK, h.picker.Surprise())
}
