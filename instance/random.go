package instance

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/epec"
)

// RandomInstance builds a random but economically plausible instance with
// countryCount countries, each given 1-3 followers, deterministic for a
// fixed seed. Follows the teacher's seeded-PCG, stable-iteration-order
// random-construction idiom (countries and followers are visited in
// ascending index order; every draw is taken from the single seeded
// source, so the same seed always yields the same instance).
func RandomInstance(countryCount int, seed uint64) (*Instance, error) {
	if countryCount < 1 {
		return nil, ErrNoCountries
	}

	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	paradigms := []string{"standard", "single", "carbon"}

	countries := make([]CountrySpec, countryCount)
	for i := 0; i < countryCount; i++ {
		followerCount := 1 + rng.IntN(3)
		followers := make([]FollowerSpec, followerCount)
		for f := 0; f < followerCount; f++ {
			taxCap := float64(epec.NoLimit)
			if rng.Float64() < 0.5 {
				taxCap = 20 + rng.Float64()*80
			}
			followers[f] = FollowerSpec{
				Name:         fmt.Sprintf("producer_%d_%d", i, f),
				LinCost:      5 + rng.Float64()*20,
				QuadCost:     0.1 + rng.Float64()*0.9,
				Capacity:     50 + rng.Float64()*150,
				EmissionCost: rng.Float64() * 15,
				TaxCap:       taxCap,
			}
		}

		priceCap := float64(epec.NoLimit)
		if rng.Float64() < 0.3 {
			priceCap = 150 + rng.Float64()*150
		}

		importLimit, exportLimit := 0.0, 0.0
		if countryCount > 1 && rng.Float64() < 0.6 {
			importLimit = float64(epec.NoLimit)
			if rng.Float64() < 0.5 {
				importLimit = 10 + rng.Float64()*40
			}
			exportLimit = float64(epec.NoLimit)
			if rng.Float64() < 0.5 {
				exportLimit = 10 + rng.Float64()*40
			}
		}

		countries[i] = CountrySpec{
			Name:      fmt.Sprintf("country_%d", i),
			Followers: followers,
			Demand: DemandSpec{
				Alpha: 200 + rng.Float64()*200,
				Beta:  0.05 + rng.Float64()*0.5,
			},
			Leader: LeaderSpec{
				ImportLimit:           importLimit,
				ExportLimit:           exportLimit,
				PriceCap:              priceCap,
				TaxRevenueInObjective: rng.Float64() < 0.5,
				Paradigm:              paradigms[rng.IntN(len(paradigms))],
			},
		}
	}

	transport := mat.NewDense(countryCount, countryCount, nil)
	for i := 0; i < countryCount; i++ {
		for j := 0; j < countryCount; j++ {
			if i == j {
				continue
			}
			transport.Set(i, j, 1+rng.Float64()*9)
		}
	}

	inst := &Instance{Countries: countries, Transport: transport}
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	return inst, nil
}
