package editsession

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorenmh/homeservices-admin/internal/models"
)

type fixedConfirmer struct {
	yes   bool
	err   error
	asked int
}

func (f *fixedConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	f.asked++
	return f.yes, f.err
}

func validVersion() models.AppVersion {
	return models.AppVersion{
		ID:            "v1",
		Name:          "Customer App",
		Version:       "1.0.0",
		ProductionURL: "https://play.example.com/app",
	}
}

func TestSession_StartClonesIndependently(t *testing.T) {
	plan := models.SubscriptionPlan{
		ID:       "p1",
		Name:     "Gold",
		Features: []models.Feature{{Name: "Priority support"}},
	}

	s := New[models.SubscriptionPlan]()
	s.Start(plan.ID, plan)

	require.NoError(t, s.Update("features", func(p *models.SubscriptionPlan) {
		p.Features[0].Included = true
	}))

	assert.False(t, plan.Features[0].Included, "caller's record is untouched")
	assert.False(t, s.Original().Features[0].Included)
	assert.True(t, s.Draft().Features[0].Included)
	assert.True(t, s.HasChanges())
}

func TestSession_SetFieldValidatesOneField(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		raw       string
		wantError string
	}{
		{name: "valid version", field: "version", raw: "1.0.*"},
		{name: "invalid version", field: "version", raw: "v1.0", wantError: "must be a version like 1.0.0 (up to three numeric groups, last may be *)"},
		{name: "blank name", field: "name", raw: "   ", wantError: "is required"},
		{name: "short name", field: "name", raw: "A", wantError: "must be at least 2 characters"},
		{name: "empty optional url", field: "stagingUrl", raw: ""},
		{name: "bad optional url", field: "stagingUrl", raw: "not-a-url", wantError: "must be a valid absolute URL (e.g. https://example.com)"},
		{name: "good optional url", field: "playStoreLink", raw: "https://example.com"},
		{name: "missing production url", field: "productionUrl", raw: "", wantError: "is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[models.AppVersion]()
			s.Start("v1", validVersion())

			require.NoError(t, s.SetField(tt.field, tt.raw))
			assert.Equal(t, tt.wantError, s.FieldError(tt.field))
			if tt.wantError == "" {
				assert.Empty(t, s.FieldErrors())
			} else {
				assert.Len(t, s.FieldErrors(), 1, "only the edited field is validated")
			}
		})
	}
}

func TestSession_FieldErrorClearsWhenFixed(t *testing.T) {
	s := New[models.AppVersion]()
	s.Start("v1", validVersion())

	require.NoError(t, s.SetField("version", "1..0"))
	assert.NotEmpty(t, s.FieldError("version"))
	assert.False(t, s.CanSave())

	require.NoError(t, s.SetField("version", "1.2"))
	assert.Empty(t, s.FieldError("version"))
	assert.True(t, s.CanSave())
}

func TestSession_NumericFields(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantError string
		wantPrice float64
	}{
		{name: "number", raw: "499.5", wantPrice: 499.5},
		{name: "zero", raw: "0", wantPrice: 0},
		{name: "negative", raw: "-1", wantError: "must be a number greater than or equal to 0", wantPrice: -1},
		{name: "not a number", raw: "abc", wantError: "must be a number", wantPrice: 100},
		{name: "empty", raw: "", wantError: "must be a number", wantPrice: 100},
		{name: "nan", raw: "NaN", wantError: "must be a number", wantPrice: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[models.SubscriptionPlan]()
			s.Start("p1", models.SubscriptionPlan{Name: "Basic", Price: 100})

			require.NoError(t, s.SetField("price", tt.raw))
			assert.Equal(t, tt.wantError, s.FieldError("price"))
			assert.Equal(t, tt.wantPrice, s.Draft().Price)
		})
	}
}

func TestSession_ParseErrorSurvivesValidateAll(t *testing.T) {
	s := New[models.SubscriptionPlan]()
	s.Start("p1", models.SubscriptionPlan{Name: "Basic", Price: 100})

	require.NoError(t, s.SetField("gstPercentage", "eighteen"))
	assert.False(t, s.ValidateAll())
	assert.Equal(t, "must be a number", s.FieldError("gstPercentage"))

	require.NoError(t, s.SetField("gstPercentage", "18"))
	assert.True(t, s.ValidateAll())
}

func TestSession_NullableAndBoolFields(t *testing.T) {
	s := New[models.SubscriptionPlan]()
	s.Start("p1", models.SubscriptionPlan{Name: "Basic"})

	require.NoError(t, s.SetField("isPopular", "true"))
	assert.True(t, s.Draft().IsPopular)

	require.NoError(t, s.SetField("isPopular", "maybe"))
	assert.Equal(t, "must be true or false", s.FieldError("isPopular"))

	require.NoError(t, s.SetField("discountPercentage", "12.5"))
	require.NotNil(t, s.Draft().DiscountPercentage)
	assert.Equal(t, 12.5, *s.Draft().DiscountPercentage)

	v, err := s.Value("discountPercentage")
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)

	require.NoError(t, s.SetField("discountPercentage", ""))
	assert.Nil(t, s.Draft().DiscountPercentage)
}

func TestSession_FieldAccessErrors(t *testing.T) {
	s := New[models.AppVersion]()
	assert.ErrorIs(t, s.SetField("name", "x"), ErrNotStarted)

	s.Start("v1", validVersion())
	assert.ErrorIs(t, s.SetField("nope", "x"), ErrUnknownField)
	assert.ErrorIs(t, s.SetField("id", "other"), ErrReadOnlyField)
	assert.ErrorIs(t, s.SetField("createdAt", "2024-01-01"), ErrReadOnlyField)

	plans := New[models.SubscriptionPlan]()
	plans.Start("p1", models.SubscriptionPlan{Name: "Basic"})
	assert.ErrorIs(t, plans.SetField("features", "x"), ErrUnsupportedField)
}

func TestSession_Recompute(t *testing.T) {
	calls := 0
	s := New(WithRecompute(func(p *models.SubscriptionPlan) {
		calls++
		p.FinalPrice = p.Price * 2
	}), WithReadOnly[models.SubscriptionPlan]("finalPrice"))
	s.Start("p1", models.SubscriptionPlan{Name: "Basic"})

	require.NoError(t, s.SetField("price", "50"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 100.0, s.Draft().FinalPrice)

	assert.ErrorIs(t, s.SetField("finalPrice", "1"), ErrReadOnlyField)
	assert.NotContains(t, s.Fields(), "finalPrice")
	assert.NotContains(t, s.Fields(), "id")
	assert.Contains(t, s.Fields(), "price")
}

func TestSession_ValidateAll(t *testing.T) {
	s := New[models.AppVersion]()
	s.Start("v1", models.AppVersion{Name: "A", Version: "", ProductionURL: "ftp//bad"})

	assert.False(t, s.ValidateAll())
	errs := s.FieldErrors()
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "version")
	assert.Contains(t, errs, "productionUrl")

	err := s.Validate()
	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "name", verrs[0].Field)

	require.NoError(t, s.SetField("name", "App"))
	require.NoError(t, s.SetField("version", "1.0.0"))
	require.NoError(t, s.SetField("productionUrl", "https://a.com"))
	assert.True(t, s.ValidateAll())
	assert.NoError(t, s.Validate())
}

func TestSession_Cancel(t *testing.T) {
	tests := []struct {
		name       string
		change     bool
		confirmer  *fixedConfirmer
		wantClosed bool
		wantAsked  int
		wantErr    bool
	}{
		{name: "unchanged closes without asking", confirmer: &fixedConfirmer{}, wantClosed: true},
		{name: "changed and confirmed", change: true, confirmer: &fixedConfirmer{yes: true}, wantClosed: true, wantAsked: 1},
		{name: "changed and declined", change: true, confirmer: &fixedConfirmer{}, wantAsked: 1},
		{name: "prompt error keeps session", change: true, confirmer: &fixedConfirmer{err: errors.New("eof")}, wantAsked: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[models.AppVersion]()
			s.Start("v1", validVersion())
			if tt.change {
				require.NoError(t, s.SetField("description", "Bug fixes"))
			}

			closed, err := s.Cancel(context.Background(), tt.confirmer)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantClosed, closed)
			assert.Equal(t, !tt.wantClosed, s.Active())
			assert.Equal(t, tt.wantAsked, tt.confirmer.asked)
		})
	}
}

func TestSession_RevertingClearsChanges(t *testing.T) {
	s := New[models.AppVersion]()
	s.Start("v1", validVersion())

	require.NoError(t, s.SetField("version", "2.0.0"))
	assert.True(t, s.HasChanges())

	require.NoError(t, s.SetField("version", "1.0.0"))
	assert.False(t, s.HasChanges())
}

func TestSession_EmptyListEqualsMissingList(t *testing.T) {
	s := New[models.SubscriptionPlan]()
	s.Start("p1", models.SubscriptionPlan{ID: "p1", Name: "Gold"})

	require.NoError(t, s.Update("features", func(p *models.SubscriptionPlan) {
		p.Features = []models.Feature{}
	}))
	assert.False(t, s.HasChanges(), "an empty list is the same as no list")

	confirm := &fixedConfirmer{}
	closed, err := s.Cancel(context.Background(), confirm)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Zero(t, confirm.asked, "nothing to discard")

	s.Start("p1", models.SubscriptionPlan{ID: "p1", Name: "Gold"})
	require.NoError(t, s.Update("features", func(p *models.SubscriptionPlan) {
		p.Features = []models.Feature{{Name: "Priority support"}}
	}))
	assert.True(t, s.HasChanges())
}
