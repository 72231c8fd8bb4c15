package projection

import (
	"cmp"

	"whatsapp-dashboard/internal/models"
)

// Business filter values
const (
	BusinessOnly   = "business"
	IndividualOnly = "individual"
)

type AddressQuery struct {
	Search   string
	Status   string
	City     string
	Business string
	Sort     string
	Desc     bool
}

type AddressStats struct {
	Total         int     `json:"total"`
	Business      int     `json:"business"`
	Messaged      int     `json:"messaged"`
	AverageRating float64 `json:"averageRating"`
}

type AddressFacets struct {
	Cities   []string `json:"cities"`
	Statuses []string `json:"statuses"`
}

var addressSortKeys = SortKeys[models.Address]{
	"name":        func(a, b models.Address) int { return cmp.Compare(a.Name, b.Name) },
	"phoneNumber": func(a, b models.Address) int { return cmp.Compare(a.PhoneNumber, b.PhoneNumber) },
	"city":        func(a, b models.Address) int { return cmp.Compare(deref(a.City), deref(b.City)) },
	"status":      func(a, b models.Address) int { return cmp.Compare(deref(a.Status), deref(b.Status)) },
	"rating":      func(a, b models.Address) int { return cmp.Compare(derefOr(a.Rating, -1), derefOr(b.Rating, -1)) },
	"createdAt": func(a, b models.Address) int {
		return cmp.Compare(timeOrZero(a.CreatedAt).UnixNano(), timeOrZero(b.CreatedAt).UnixNano())
	},
}

// Addresses returns the address-book rows matching q
func Addresses(items []models.Address, q AddressQuery) []models.Address {
	rows := Filter(items,
		func(a models.Address) bool {
			return MatchSearch(q.Search, a.Name, a.PhoneNumber, deref(a.Email), deref(a.City))
		},
		func(a models.Address) bool { return MatchCategory(q.Status, deref(a.Status)) },
		func(a models.Address) bool { return MatchCategory(q.City, deref(a.City)) },
		func(a models.Address) bool {
			switch q.Business {
			case BusinessOnly:
				return a.IsBusiness
			case IndividualOnly:
				return !a.IsBusiness
			}
			return true
		},
	)
	return SortBy(rows, addressSortKeys, q.Sort, q.Desc)
}

// AddressSummary aggregates over the whole collection
func AddressSummary(items []models.Address) AddressStats {
	return AddressStats{
		Total:    len(items),
		Business: CountWhere(items, func(a models.Address) bool { return a.IsBusiness }),
		Messaged: CountWhere(items, func(a models.Address) bool { return a.HasReceivedMessage }),
		AverageRating: AverageWhere(items, func(a models.Address) (float64, bool) {
			if a.Rating == nil || *a.Rating == 0 {
				return 0, false
			}
			return *a.Rating, true
		}),
	}
}

// Facets lists distinct non-empty cities and statuses in first-seen order
func Facets(items []models.Address) AddressFacets {
	f := AddressFacets{Cities: []string{}, Statuses: []string{}}
	seenCity := map[string]bool{}
	seenStatus := map[string]bool{}
	for _, a := range items {
		if c := deref(a.City); c != "" && !seenCity[c] {
			seenCity[c] = true
			f.Cities = append(f.Cities, c)
		}
		if s := deref(a.Status); s != "" && !seenStatus[s] {
			seenStatus[s] = true
			f.Statuses = append(f.Statuses, s)
		}
	}
	return f
}
