package instance

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/config"
	"github.com/ssriram1992/epecsolve/epec"
	"github.com/ssriram1992/epecsolve/persist"
	"github.com/ssriram1992/epecsolve/solver"
)

const magic = "Instance"

// FollowerSpec is one producer's instance-file row.
type FollowerSpec struct {
	Name         string
	LinCost      float64
	QuadCost     float64
	Capacity     float64
	EmissionCost float64
	TaxCap       float64 // epec.NoLimit for uncapped
}

// DemandSpec is a country's linear inverse-demand curve.
type DemandSpec struct {
	Alpha float64
	Beta  float64
}

// LeaderSpec is a country's government-level decision bounds.
type LeaderSpec struct {
	ImportLimit           float64
	ExportLimit           float64
	PriceCap              float64
	TaxRevenueInObjective bool
	Paradigm              string // "standard", "single", or "carbon"
}

// CountrySpec is one country's instance-file record.
type CountrySpec struct {
	Name      string
	Followers []FollowerSpec
	Demand    DemandSpec
	Leader    LeaderSpec
}

// Instance is a complete EPEC problem instance: countries plus the
// transportation-cost matrix between them.
type Instance struct {
	Countries []CountrySpec
	Transport *mat.Dense // n x n, zero diagonal
}

func paradigmFromTag(tag string) (epec.TaxParadigm, error) {
	switch tag {
	case "standard":
		return epec.Standard, nil
	case "single":
		return epec.Single, nil
	case "carbon":
		return epec.Carbon, nil
	default:
		return 0, ErrUnknownParadigm
	}
}

// Validate checks the shape invariants §6.1 requires: at least one
// country, distinct country names, at least one follower per country,
// and a square zero-diagonal
// transport matrix sized to the country count.
func (inst *Instance) Validate() error {
	if len(inst.Countries) == 0 {
		return ErrNoCountries
	}

	seen := make(map[string]bool, len(inst.Countries))
	for _, c := range inst.Countries {
		if seen[c.Name] {
			return ErrDuplicateCountry
		}
		seen[c.Name] = true
		if len(c.Followers) == 0 {
			return ErrFollowerArity
		}
	}

	n := len(inst.Countries)
	if inst.Transport == nil {
		return nil
	}
	rows, cols := inst.Transport.Dims()
	if rows != n || cols != n {
		return ErrTransportShape
	}
	for i := 0; i < n; i++ {
		if inst.Transport.At(i, i) != 0 {
			return ErrTransportShape
		}
	}

	return nil
}

// Build materializes inst as an *epec.EPEC: one epec.Country per
// CountrySpec, plus the transport-cost matrix, all added but not yet
// Finalize'd — the caller finalizes once any additional setup (deadline,
// Stats registration) is done.
func (inst *Instance) Build(cfg config.Config, be solver.Backend) (*epec.EPEC, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	e := epec.New(cfg, be)
	for _, cs := range inst.Countries {
		paradigm, err := paradigmFromTag(cs.Leader.Paradigm)
		if err != nil {
			return nil, err
		}

		followers := make([]epec.FollowerParams, len(cs.Followers))
		for i, f := range cs.Followers {
			followers[i] = epec.FollowerParams{
				Name:         f.Name,
				LinCost:      f.LinCost,
				QuadCost:     f.QuadCost,
				Capacity:     f.Capacity,
				EmissionCost: f.EmissionCost,
				TaxCap:       f.TaxCap,
			}
		}

		country, err := epec.NewCountry(
			cs.Name,
			followers,
			epec.DemandParams{Alpha: cs.Demand.Alpha, Beta: cs.Demand.Beta},
			epec.LeaderParams{
				ImportLimit:           cs.Leader.ImportLimit,
				ExportLimit:           cs.Leader.ExportLimit,
				PriceCap:              cs.Leader.PriceCap,
				TaxRevenueInObjective: cs.Leader.TaxRevenueInObjective,
				Paradigm:              paradigm,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("instance: build country %s: %w", cs.Name, err)
		}
		if err := e.AddCountry(country); err != nil {
			return nil, fmt.Errorf("instance: add country %s: %w", cs.Name, err)
		}
	}

	if inst.Transport != nil {
		if err := e.AddTransportCosts(inst.Transport); err != nil {
			return nil, fmt.Errorf("instance: add transport costs: %w", err)
		}
	}

	return e, nil
}

// Save writes inst in the plain-text instance format.
func Save(w io.Writer, inst *Instance) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	if err := persist.WriteMagic(w, magic); err != nil {
		return err
	}
	if err := persist.WriteIntSection(w, "country_count", []int{len(inst.Countries)}); err != nil {
		return err
	}

	for i, c := range inst.Countries {
		if err := writeCountry(w, i, c); err != nil {
			return err
		}
	}

	n := 0
	var rows []float64
	if inst.Transport != nil {
		n, _ = inst.Transport.Dims()
		rows = make([]float64, n*n)
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				rows[r*n+c] = inst.Transport.At(r, c)
			}
		}
	}

	return persist.WriteSection(w, "transport", rows)
}

func writeCountry(w io.Writer, i int, c CountrySpec) error {
	tag := func(s string) string { return fmt.Sprintf("country_%d_%s", i, s) }

	if err := persist.WriteStringSection(w, tag("name"), []string{c.Name}); err != nil {
		return err
	}

	names := make([]string, len(c.Followers))
	lin := make([]float64, len(c.Followers))
	quad := make([]float64, len(c.Followers))
	cap_ := make([]float64, len(c.Followers))
	emis := make([]float64, len(c.Followers))
	taxCap := make([]float64, len(c.Followers))
	for i, f := range c.Followers {
		names[i] = f.Name
		lin[i] = f.LinCost
		quad[i] = f.QuadCost
		cap_[i] = f.Capacity
		emis[i] = f.EmissionCost
		taxCap[i] = f.TaxCap
	}

	if err := persist.WriteStringSection(w, tag("follower_names"), names); err != nil {
		return err
	}
	if err := persist.WriteSection(w, tag("lin_cost"), lin); err != nil {
		return err
	}
	if err := persist.WriteSection(w, tag("quad_cost"), quad); err != nil {
		return err
	}
	if err := persist.WriteSection(w, tag("capacity"), cap_); err != nil {
		return err
	}
	if err := persist.WriteSection(w, tag("emission_cost"), emis); err != nil {
		return err
	}
	if err := persist.WriteSection(w, tag("tax_cap"), taxCap); err != nil {
		return err
	}
	if err := persist.WriteSection(w, tag("demand"), []float64{c.Demand.Alpha, c.Demand.Beta}); err != nil {
		return err
	}
	if err := persist.WriteSection(w, tag("leader"), []float64{c.Leader.ImportLimit, c.Leader.ExportLimit, c.Leader.PriceCap}); err != nil {
		return err
	}
	revenueFlag := 0
	if c.Leader.TaxRevenueInObjective {
		revenueFlag = 1
	}
	if err := persist.WriteIntSection(w, tag("tax_revenue_in_objective"), []int{revenueFlag}); err != nil {
		return err
	}

	return persist.WriteStringSection(w, tag("paradigm"), []string{c.Leader.Paradigm})
}

// Load reads the plain-text instance format written by Save.
func Load(r io.Reader) (*Instance, error) {
	br := bufio.NewReader(r)
	if err := persist.ReadMagic(br, magic); err != nil {
		return nil, err
	}

	_, countSection, err := persist.ReadIntSection(br, "country_count")
	if err != nil {
		return nil, err
	}
	if len(countSection) != 1 {
		return nil, ErrNoCountries
	}
	n := countSection[0]

	inst := &Instance{Countries: make([]CountrySpec, n)}
	for i := 0; i < n; i++ {
		c, err := readCountry(br, i)
		if err != nil {
			return nil, err
		}
		inst.Countries[i] = c
	}

	_, transportRows, err := persist.ReadSection(br, "transport")
	if err != nil {
		return nil, err
	}
	if len(transportRows) > 0 {
		side := 0
		for side*side < len(transportRows) {
			side++
		}
		inst.Transport = mat.NewDense(side, side, nil)
		for r := 0; r < side; r++ {
			for c := 0; c < side; c++ {
				inst.Transport.Set(r, c, transportRows[r*side+c])
			}
		}
	}

	if err := inst.Validate(); err != nil {
		return nil, err
	}

	return inst, nil
}

func readCountry(br *bufio.Reader, i int) (CountrySpec, error) {
	tag := func(s string) string { return fmt.Sprintf("country_%d_%s", i, s) }

	_, names, err := persist.ReadStringSection(br, tag("name"))
	if err != nil {
		return CountrySpec{}, err
	}
	if len(names) != 1 {
		return CountrySpec{}, ErrDuplicateCountry
	}

	_, followerNames, err := persist.ReadStringSection(br, tag("follower_names"))
	if err != nil {
		return CountrySpec{}, err
	}
	_, lin, err := persist.ReadSection(br, tag("lin_cost"))
	if err != nil {
		return CountrySpec{}, err
	}
	_, quad, err := persist.ReadSection(br, tag("quad_cost"))
	if err != nil {
		return CountrySpec{}, err
	}
	_, cap_, err := persist.ReadSection(br, tag("capacity"))
	if err != nil {
		return CountrySpec{}, err
	}
	_, emis, err := persist.ReadSection(br, tag("emission_cost"))
	if err != nil {
		return CountrySpec{}, err
	}
	_, taxCap, err := persist.ReadSection(br, tag("tax_cap"))
	if err != nil {
		return CountrySpec{}, err
	}

	k := len(followerNames)
	if len(lin) != k || len(quad) != k || len(cap_) != k || len(emis) != k || len(taxCap) != k {
		return CountrySpec{}, ErrFollowerArity
	}

	followers := make([]FollowerSpec, k)
	for j := range followers {
		followers[j] = FollowerSpec{
			Name:         followerNames[j],
			LinCost:      lin[j],
			QuadCost:     quad[j],
			Capacity:     cap_[j],
			EmissionCost: emis[j],
			TaxCap:       taxCap[j],
		}
	}

	_, demand, err := persist.ReadSection(br, tag("demand"))
	if err != nil {
		return CountrySpec{}, err
	}
	if len(demand) != 2 {
		return CountrySpec{}, ErrFollowerArity
	}

	_, leader, err := persist.ReadSection(br, tag("leader"))
	if err != nil {
		return CountrySpec{}, err
	}
	if len(leader) != 3 {
		return CountrySpec{}, ErrFollowerArity
	}

	_, revenueFlag, err := persist.ReadIntSection(br, tag("tax_revenue_in_objective"))
	if err != nil {
		return CountrySpec{}, err
	}
	if len(revenueFlag) != 1 {
		return CountrySpec{}, ErrFollowerArity
	}

	_, paradigmTags, err := persist.ReadStringSection(br, tag("paradigm"))
	if err != nil {
		return CountrySpec{}, err
	}
	if len(paradigmTags) != 1 {
		return CountrySpec{}, ErrUnknownParadigm
	}
	if _, err := paradigmFromTag(paradigmTags[0]); err != nil {
		return CountrySpec{}, err
	}

	return CountrySpec{
		Name:      names[0],
		Followers: followers,
		Demand:    DemandSpec{Alpha: demand[0], Beta: demand[1]},
		Leader: LeaderSpec{
			ImportLimit:           leader[0],
			ExportLimit:           leader[1],
			PriceCap:              leader[2],
			TaxRevenueInObjective: revenueFlag[0] != 0,
			Paradigm:              paradigmTags[0],
		},
	}, nil
}
