// Package shop is a small order-fulfilment world used to exercise the planner.
//
// An order can only be dispatched once it has an address, a payment, a package
// and a voucher. Payment needs an address first; the rest is unordered. The
// cost of a state is the number of things done so far, so every complete route
// to dispatch costs the same and the planner's tie-break decides the order.
package shop

import (
	"fmt"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
)

// Action names.
const (
	DispatchItem = "dispatchItem"
	PackageItem  = "packageItem"
	GetPayment   = "getPayment"
	GetAddress   = "getAddress"
	AddVoucher   = "addVoucher"
)

// Fixed values written by the effects.
const (
	DefaultAddress    = "1 golden acres, norwich"
	DefaultPaymentKey = "5435334"
)

// State is the order being fulfilled. Empty Address and PaymentKey mean unset.
type State struct {
	Address      string   `json:"address,omitempty"`
	Dispatched   bool     `json:"dispatched"`
	PaymentKey   string   `json:"payment_key,omitempty"`
	Packaged     bool     `json:"packaged"`
	VoucherAdded bool     `json:"voucher_added"`
	Dids         []string `json:"dids"`
}

// NewState returns an empty order.
func NewState() *State {
	return &State{Dids: []string{}}
}

// Clone returns a deep copy; Dids is never shared.
func (s *State) Clone() *State {
	c := *s
	c.Dids = make([]string, len(s.Dids))
	copy(c.Dids, s.Dids)
	return &c
}

// Cost is the number of things done so far.
func (s *State) Cost() float64 {
	return float64(len(s.Dids))
}

func (s *State) did(format string, args ...any) {
	s.Dids = append(s.Dids, fmt.Sprintf(format, args...))
}

// Actions returns the five shop actions in their canonical registration order.
func Actions() []domain.Action[*State] {
	return []domain.Action[*State]{
		domain.NewAction(DispatchItem,
			func(s *State) bool {
				return s.Address != "" && !s.Dispatched && s.PaymentKey != "" && s.Packaged && s.VoucherAdded
			},
			func(s *State) {
				s.did("dispatch to address %s, payment was %s", s.Address, s.PaymentKey)
				s.Dispatched = true
			}),
		domain.NewAction(PackageItem,
			func(s *State) bool { return !s.Packaged },
			func(s *State) {
				s.Packaged = true
				s.did("packaged item")
			}),
		domain.NewAction(GetPayment,
			func(s *State) bool { return s.Address != "" && s.PaymentKey == "" },
			func(s *State) {
				s.PaymentKey = DefaultPaymentKey
				s.did("took payment, key=%s", s.PaymentKey)
			}),
		domain.NewAction(GetAddress,
			func(s *State) bool { return s.Address == "" },
			func(s *State) {
				s.Address = DefaultAddress
				s.did("got address: %s", s.Address)
			}),
		domain.NewAction(AddVoucher,
			func(s *State) bool { return !s.VoucherAdded },
			func(s *State) {
				s.VoucherAdded = true
				s.did("added voucher")
			}),
	}
}

// NewPlanner builds a planner over the given state with the shop actions
// registered. A nil state starts from an empty order.
func NewPlanner(initial *State, opts ...runtime.Option) *runtime.Planner[*State] {
	if initial == nil {
		initial = NewState()
	}
	p := runtime.NewPlanner(initial, opts...)
	p.AddActions(Actions()...)
	return p
}
