// Package scenario parses scenario files.
//
// Scenarios are written in HCL:
//
//	difficulty     = "deathrun"
//	food_challenge = "vegan"
//
//	installation "base" {
//	  position = [0, -5, 0]
//	  power    = 4
//	  capacity = 100
//	}
//
//	machine "fab" {
//	  kind  = "fabricator"
//	  relay = "base"
//	  cost  = 5
//	}
//
//	step {
//	  action = "craft"
//	  target = "fab"
//	}
//
// JSON files holding an engine.Scenario are accepted as well.
package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	"go.uber.org/multierr"

	"deathrun-power/core/engine"
	"deathrun-power/core/radiation"
	"deathrun-power/core/types"
	"deathrun-power/internal/errors"
)

var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name"},
		{Name: "difficulty"},
		{Name: "food_challenge"},
		{Name: "started_at"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "player"},
		{Type: "nitrogen"},
		{Type: "zone", LabelNames: []string{"name"}},
		{Type: string(types.KindInstallation), LabelNames: []string{"name"}},
		{Type: string(types.KindMobileRelay), LabelNames: []string{"name"}},
		{Type: string(types.KindVehicle), LabelNames: []string{"name"}},
		{Type: string(types.KindTool), LabelNames: []string{"name"}},
		{Type: "machine", LabelNames: []string{"name"}},
		{Type: "step"},
	},
}

var (
	playerSchema = &hcl.BodySchema{Attributes: []hcl.AttributeSchema{
		{Name: "position"},
	}}
	nitrogenSchema = &hcl.BodySchema{Attributes: []hcl.AttributeSchema{
		{Name: "safe_depth"},
		{Name: "level"},
	}}
	zoneSchema = &hcl.BodySchema{Attributes: []hcl.AttributeSchema{
		{Name: "center"},
		{Name: "radius", Required: true},
		{Name: "max_depth"},
		{Name: "active"},
	}}
	endpointSchema = &hcl.BodySchema{Attributes: []hcl.AttributeSchema{
		{Name: "position"},
		{Name: "power"},
		{Name: "capacity", Required: true},
		{Name: "held"},
	}}
	machineSchema = &hcl.BodySchema{Attributes: []hcl.AttributeSchema{
		{Name: "kind", Required: true},
		{Name: "relay", Required: true},
		{Name: "cost", Required: true},
		{Name: "batteries"},
	}}
	stepSchema = &hcl.BodySchema{Attributes: []hcl.AttributeSchema{
		{Name: "action", Required: true},
		{Name: "target"},
		{Name: "amount"},
		{Name: "count"},
		{Name: "position"},
		{Name: "item"},
		{Name: "food_value"},
		{Name: "seconds"},
	}}
)

// Parser parses scenario files
type Parser struct {
	parser *hclparse.Parser
}

// NewParser creates a new scenario parser
func NewParser() *Parser {
	return &Parser{
		parser: hclparse.NewParser(),
	}
}

// ParseFile reads and parses a scenario file. Files ending in .json are
// decoded as JSON; everything else is parsed as HCL.
func (p *Parser) ParseFile(path string) (*engine.Scenario, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("scenario file", path)
		}
		return nil, errors.Wrap(errors.TypeInput, "failed to read scenario", err).WithContext("path", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(src)
	}

	sc, err := p.Parse(src, path)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// ParseJSON decodes a JSON scenario
func ParseJSON(src []byte) (*engine.Scenario, error) {
	var sc engine.Scenario
	if err := json.Unmarshal(src, &sc); err != nil {
		return nil, errors.Parsing("invalid scenario JSON", err)
	}
	return &sc, nil
}

// Parse parses HCL scenario source. filename is only used in diagnostics.
func (p *Parser) Parse(src []byte, filename string) (*engine.Scenario, error) {
	file, diags := p.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	sc := &engine.Scenario{}
	var d decoder

	var tier, challenge string
	d.attr(content.Attributes, "name", &sc.Name)
	d.attr(content.Attributes, "difficulty", &tier)
	d.attr(content.Attributes, "food_challenge", &challenge)
	d.attr(content.Attributes, "started_at", &sc.StartedAt)
	sc.Tier = types.Tier(strings.ToLower(tier))
	sc.FoodChallenge = types.FoodChallenge(strings.ToLower(challenge))

	for _, block := range content.Blocks {
		switch block.Type {
		case "player":
			attrs := d.content(block, playerSchema)
			d.vec(attrs, "position", &sc.Player)

		case "nitrogen":
			attrs := d.content(block, nitrogenSchema)
			d.attr(attrs, "safe_depth", &sc.Nitrogen.SafeDepth)
			d.attr(attrs, "level", &sc.Nitrogen.Level)

		case "zone":
			attrs := d.content(block, zoneSchema)
			z := radiation.Zone{Name: block.Labels[0], Active: true}
			d.vec(attrs, "center", &z.Center)
			d.attr(attrs, "radius", &z.Radius)
			d.attr(attrs, "max_depth", &z.MaxDepth)
			d.attr(attrs, "active", &z.Active)
			sc.Zones = append(sc.Zones, z)

		case "machine":
			attrs := d.content(block, machineSchema)
			m := engine.MachineSpec{Name: block.Labels[0]}
			var kind string
			d.attr(attrs, "kind", &kind)
			m.Kind = engine.MachineKind(kind)
			d.attr(attrs, "relay", &m.Relay)
			d.attr(attrs, "cost", &m.Cost)
			d.attr(attrs, "batteries", &m.Batteries)
			sc.Machines = append(sc.Machines, m)

		case "step":
			attrs := d.content(block, stepSchema)
			st := engine.Step{Line: block.DefRange.Start.Line}
			var action string
			d.attr(attrs, "action", &action)
			st.Action = engine.Action(action)
			d.attr(attrs, "target", &st.Target)
			d.attr(attrs, "amount", &st.Amount)
			d.attr(attrs, "count", &st.Count)
			d.attr(attrs, "item", &st.Item)
			d.attr(attrs, "food_value", &st.FoodValue)
			d.attr(attrs, "seconds", &st.Seconds)
			if _, ok := attrs["position"]; ok {
				st.Position = &types.Vec3{}
				d.vec(attrs, "position", st.Position)
			}
			sc.Steps = append(sc.Steps, st)

		default:
			attrs := d.content(block, endpointSchema)
			e := engine.EndpointSpec{Name: block.Labels[0], Kind: types.EndpointKind(block.Type)}
			d.vec(attrs, "position", &e.Position)
			d.attr(attrs, "power", &e.Power)
			d.attr(attrs, "capacity", &e.Capacity)
			d.attr(attrs, "held", &e.Held)
			sc.Endpoints = append(sc.Endpoints, e)
		}
	}

	if d.diags.HasErrors() {
		return nil, diagError(d.diags)
	}
	return sc, nil
}

// decoder accumulates diagnostics across a whole file
type decoder struct {
	diags hcl.Diagnostics
}

func (d *decoder) content(block *hcl.Block, schema *hcl.BodySchema) hcl.Attributes {
	content, diags := block.Body.Content(schema)
	d.diags = append(d.diags, diags...)
	if content == nil {
		return hcl.Attributes{}
	}
	return content.Attributes
}

// attr decodes an optional attribute into target, leaving it untouched when absent
func (d *decoder) attr(attrs hcl.Attributes, name string, target interface{}) {
	attr, ok := attrs[name]
	if !ok {
		return
	}
	val, diags := attr.Expr.Value(nil)
	d.diags = append(d.diags, diags...)
	if diags.HasErrors() {
		return
	}

	if _, ok := target.(*[]string); ok {
		conv, err := convert.Convert(val, cty.List(cty.String))
		if err != nil {
			d.fail(attr, err)
			return
		}
		val = conv
	}

	if err := gocty.FromCtyValue(val, target); err != nil {
		d.fail(attr, err)
	}
}

// vec decodes a three-element number list into a Vec3
func (d *decoder) vec(attrs hcl.Attributes, name string, target *types.Vec3) {
	attr, ok := attrs[name]
	if !ok {
		return
	}
	val, diags := attr.Expr.Value(nil)
	d.diags = append(d.diags, diags...)
	if diags.HasErrors() {
		return
	}

	conv, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		d.fail(attr, err)
		return
	}
	var xyz []float64
	if err := gocty.FromCtyValue(conv, &xyz); err != nil {
		d.fail(attr, err)
		return
	}
	if len(xyz) != 3 {
		d.diags = append(d.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid vector",
			Detail:   "expected [x, y, z]",
			Subject:  attr.Expr.Range().Ptr(),
		})
		return
	}
	*target = types.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
}

func (d *decoder) fail(attr *hcl.Attribute, err error) {
	d.diags = append(d.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid value for " + attr.Name,
		Detail:   err.Error(),
		Subject:  attr.Expr.Range().Ptr(),
	})
}

// diagError folds HCL error diagnostics into parsing errors carrying their location
func diagError(diags hcl.Diagnostics) error {
	var errs error
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		e := errors.Newf(errors.TypeParsing, "%s: %s", diag.Summary, diag.Detail)
		if diag.Subject != nil {
			e = e.WithContext("file", diag.Subject.Filename).WithContext("line", diag.Subject.Start.Line)
		}
		errs = multierr.Append(errs, e)
	}
	return errs
}
