package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
	"github.com/lucidtrace/tabula/timeframe"
)

// meanStub is a minimal single-output computer used to exercise the catalog.
type meanStub struct {
	analog source.AnalogSource
}

func (m *meanStub) Compute(plan *table.ExecutionPlan) ([]float64, error) {
	return make([]float64, plan.RowCount()), nil
}
func (m *meanStub) SourceDependency() string { return m.analog.Name() }
func (m *meanStub) Dependencies() []string   { return nil }

// offsetsStub is a minimal multi-output computer.
type offsetsStub struct{}

func (o *offsetsStub) ComputeBatch(plan *table.ExecutionPlan) ([][]float64, error) {
	return [][]float64{make([]float64, plan.RowCount())}, nil
}
func (o *offsetsStub) OutputNames() []string    { return []string{".t+0"} }
func (o *offsetsStub) SourceDependency() string { return "x" }
func (o *offsetsStub) Dependencies() []string   { return nil }

func analogVariant(t *testing.T) source.Variant {
	t.Helper()
	s := source.NewAnalogSeries("LFP", make([]float64, 10), timeframe.NewIdentity(10))
	return source.AnalogVariant(s)
}

func meanInfo() ComputerInfo {
	return ComputerInfo{
		Name:             "Test Mean",
		Description:      "mean over interval",
		ElementType:      table.ElementFloat64,
		RequiredSelector: table.SelectorInterval,
		RequiredSource:   source.KindAnalog,
	}
}

func meanFactory(variant source.Variant, params map[string]string) (any, error) {
	analog, ok := variant.Analog()
	if !ok {
		return nil, errors.NewConfigurationError("analog source required")
	}
	return &meanStub{analog: analog}, nil
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterComputer(meanInfo(), meanFactory))

	err := r.RegisterComputer(meanInfo(), meanFactory)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestRegisterValidatesInput(t *testing.T) {
	r := New()
	err := r.RegisterComputer(ComputerInfo{}, meanFactory)
	assert.True(t, errors.IsConfiguration(err))

	err = r.RegisterComputer(meanInfo(), nil)
	assert.True(t, errors.IsConfiguration(err))
}

func TestIndexDiscovery(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterComputer(meanInfo(), meanFactory))

	other := meanInfo()
	other.Name = "Test Max"
	require.NoError(t, r.RegisterComputer(other, meanFactory))

	eventInfo := ComputerInfo{
		Name:             "Test Presence",
		ElementType:      table.ElementBool,
		RequiredSelector: table.SelectorInterval,
		RequiredSource:   source.KindEvent,
	}
	require.NoError(t, r.RegisterComputer(eventInfo, meanFactory))

	infos := r.AvailableComputers(table.SelectorInterval, analogVariant(t))
	require.Len(t, infos, 2)
	assert.Equal(t, "Test Max", infos[0].Name)
	assert.Equal(t, "Test Mean", infos[1].Name)

	assert.Empty(t, r.AvailableComputers(table.SelectorTimestamp, analogVariant(t)))
	assert.Equal(t, []string{"Test Max", "Test Mean", "Test Presence"}, r.ComputerNames())
}

func TestCreateComputer(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterComputer(meanInfo(), meanFactory))

	t.Run("happy path", func(t *testing.T) {
		typed := CreateTyped[float64](r, "Test Mean", analogVariant(t), nil)
		require.NotNil(t, typed)
		assert.Equal(t, "LFP", typed.SourceDependency())
	})

	t.Run("unknown name is nil, not panic", func(t *testing.T) {
		assert.Nil(t, r.CreateComputer("No Such", analogVariant(t), nil))
	})

	t.Run("wrong source kind is nil, not error", func(t *testing.T) {
		events := source.NewEventSeries("Spikes", []timeframe.Index{1}, timeframe.NewIdentity(10))
		assert.Nil(t, r.CreateComputer("Test Mean", source.EventVariant(events), nil))
	})

	t.Run("wrong element type parameter is nil", func(t *testing.T) {
		assert.Nil(t, CreateTyped[int64](r, "Test Mean", analogVariant(t), nil))
	})

	t.Run("single-output name via multi constructor is nil", func(t *testing.T) {
		assert.Nil(t, r.CreateMultiComputer("Test Mean", analogVariant(t), nil))
	})
}

func TestCreateMultiComputer(t *testing.T) {
	r := New()
	info := ComputerInfo{
		Name:             "Test Offsets",
		ElementType:      table.ElementFloat64,
		RequiredSelector: table.SelectorTimestamp,
		RequiredSource:   source.KindAnalog,
		MakeOutputSuffixes: func(params map[string]string) []string {
			return []string{".t+0"}
		},
	}
	require.NoError(t, r.RegisterMultiComputer(info, func(variant source.Variant, params map[string]string) (any, error) {
		return &offsetsStub{}, nil
	}))

	typed := CreateTypedMulti[float64](r, "Test Offsets", analogVariant(t), nil)
	require.NotNil(t, typed)
	assert.Equal(t, []string{".t+0"}, typed.OutputNames())

	stored, ok := r.FindComputerInfo("Test Offsets")
	require.True(t, ok)
	assert.True(t, stored.IsMultiOutput)
}

func TestCreateAdapter(t *testing.T) {
	r := New()
	info := AdapterInfo{
		Name:       "Test Point X",
		InputKind:  source.KindPoint,
		OutputKind: source.KindAnalog,
	}
	require.NoError(t, r.RegisterAdapter(info, func(variant source.Variant, params map[string]string) (source.Variant, error) {
		points, _ := variant.Point()
		adapted, err := source.NewPointComponent("", points, source.AxisX)
		if err != nil {
			return source.Variant{}, err
		}
		return source.AnalogVariant(adapted), nil
	}))

	points := source.NewPointSeries("Paw", timeframe.NewIdentity(10))
	points.SetPointsAt(3, []source.Point2{{X: 1, Y: 2}}, nil)

	out := r.CreateAdapter("Test Point X", source.PointVariant(points), nil)
	require.False(t, out.IsZero())
	assert.Equal(t, source.KindAnalog, out.Kind())

	// Wrong input kind degrades to the zero variant.
	zero := r.CreateAdapter("Test Point X", analogVariant(t), nil)
	assert.True(t, zero.IsZero())

	adapters := r.AvailableAdapters(source.KindPoint)
	require.Len(t, adapters, 1)
	assert.Equal(t, "Test Point X", adapters[0].Name)
	assert.Empty(t, r.AvailableAdapters(source.KindLine))
}

func TestParameterDescriptors(t *testing.T) {
	enum := EnumParameter("operation", "reduction to apply", true, "mean", "max")
	assert.Equal(t, "enum", enum.UIHint)
	assert.Equal(t, "mean", enum.Properties["choice_0"])
	assert.Equal(t, "max", enum.Properties["choice_1"])

	num := IntParameter("segments", "samples along the line", false, 2, 100)
	assert.Equal(t, "number", num.UIHint)
	assert.Equal(t, "2", num.Properties["min"])
	assert.Equal(t, "100", num.Properties["max"])
}
