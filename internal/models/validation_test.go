package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1.0.0", true},
		{"1.2", true},
		{"1.0.*", true},
		{"7", true},
		{"10.20.30", true},
		{"v1.0", false},
		{"", false},
		{"1..0", false},
		{"1.0.0.0", false},
		{"1.*.0", false},
		{"1.0.", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsVersion(tt.input))
		})
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"https://example.com", true},
		{"http://localhost:8080/path?q=1", true},
		{"not-a-url", false},
		{"example.com", false},
		{"/relative/path", false},
		{"https://", false},
		{" https://example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAbsoluteURL(tt.input))
		})
	}
}

func TestValidate_AppVersion(t *testing.T) {
	tests := []struct {
		name      string
		version   AppVersion
		wantField []string
	}{
		{
			name:    "valid with optional links empty",
			version: AppVersion{Name: "App", Version: "1.0.0", ProductionURL: "https://a.com"},
		},
		{
			name: "valid with all links",
			version: AppVersion{
				Name: "App", Version: "1.0.*", ProductionURL: "https://a.com",
				StagingURL: "https://staging.a.com", PlayStoreLink: "https://play.google.com/store/apps/details?id=a",
			},
		},
		{
			name:      "blank name",
			version:   AppVersion{Name: "   ", Version: "1.0.0", ProductionURL: "https://a.com"},
			wantField: []string{"name"},
		},
		{
			name:      "short name",
			version:   AppVersion{Name: "A", Version: "1.0.0", ProductionURL: "https://a.com"},
			wantField: []string{"name"},
		},
		{
			name:      "bad version and staging url",
			version:   AppVersion{Name: "App", Version: "v1.0", ProductionURL: "https://a.com", StagingURL: "not-a-url"},
			wantField: []string{"version", "stagingUrl"},
		},
		{
			name:      "missing production url",
			version:   AppVersion{Name: "App", Version: "1.0.0"},
			wantField: []string{"productionUrl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.version)
			if len(tt.wantField) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var ves ValidationErrors
			require.ErrorAs(t, err, &ves)
			fields := ves.ByField()
			assert.Len(t, fields, len(tt.wantField))
			for _, f := range tt.wantField {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestValidate_SubscriptionPlan(t *testing.T) {
	plan := SubscriptionPlan{
		Name:          "Gold",
		OriginalPrice: -1,
		Price:         100,
		Features:      []Feature{{Name: ""}},
	}

	err := Validate(&plan)
	require.Error(t, err)

	var ves ValidationErrors
	require.ErrorAs(t, err, &ves)
	fields := ves.ByField()
	assert.Equal(t, "must be a number greater than or equal to 0", fields["originalPrice"])
	assert.Equal(t, "is required", fields["features[0].name"])
}

func TestValidatePartial(t *testing.T) {
	v := AppVersion{Name: "", Version: "bad", ProductionURL: ""}

	err := ValidatePartial(&v, "Version")
	require.Error(t, err)

	var ves ValidationErrors
	require.ErrorAs(t, err, &ves)
	require.Len(t, ves, 1)
	assert.Equal(t, "version", ves[0].Field)
}

func TestValidate_Pincode(t *testing.T) {
	assert.NoError(t, Validate(&Pincode{Pincode: "560001", AreaName: "Indiranagar"}))
	assert.Error(t, Validate(&Pincode{Pincode: "56001", AreaName: "Indiranagar"}))
	assert.Error(t, Validate(&Pincode{Pincode: "060001", AreaName: "Indiranagar"}))
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Equal(t, "", ValidationErrors{}.Error())

	one := ValidationErrors{{Field: "name", Message: "is required"}}
	assert.Equal(t, "name: is required", one.Error())

	two := ValidationErrors{
		{Field: "name", Message: "is required"},
		{Field: "version", Message: "bad", Value: "x"},
	}
	assert.Equal(t, `multiple validation errors: name: is required; version: bad (value: "x")`, two.Error())
}

func TestSubscriptionPlan_Clone(t *testing.T) {
	d := 10.0
	p := SubscriptionPlan{
		Name:               "Gold",
		DiscountPercentage: &d,
		Features:           []Feature{{Name: "A"}},
		FullFeatures:       []FullFeature{{Text: "long"}},
	}

	c := p.Clone()
	c.Features[0].Name = "B"
	c.FullFeatures[0].Text = "other"
	*c.DiscountPercentage = 20

	assert.Equal(t, "A", p.Features[0].Name)
	assert.Equal(t, "long", p.FullFeatures[0].Text)
	assert.Equal(t, 10.0, *p.DiscountPercentage)
}
