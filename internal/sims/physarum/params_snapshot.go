package physarum

import (
	"fmt"
	"strconv"

	"physarum/internal/core"
)

// Parameters publishes the active configuration for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	p := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("agents", "Agents", len(w.agents)),
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				stringParam("backend", "Backend", string(w.cfg.Backend)),
			},
		},
		{
			Name: "Trail",
			Params: []core.Parameter{
				floatParam("decay", "Decay", p.DecayRate),
				stringParam("color", "Color", p.Color),
				floatParam("size", "Agent size", p.AgentSize),
			},
		},
		{
			Name: "Steering",
			Params: []core.Parameter{
				floatParam("attraction", "Attraction", p.Attraction),
				floatParam("max_speed", "Max speed", p.MaxSpeed),
				floatParam("sensor_angle", "Sensor angle", p.SensorAngle),
				floatParam("sensor_distance", "Sensor distance", p.SensorDistance),
				stringParam("channel", "Channel", string(p.Channel)),
				stringParam("reflection", "Reflection", string(p.Reflection)),
			},
		},
		{
			Name: "Pointer",
			Params: []core.Parameter{
				floatParam("boost", "Speed boost", p.PointerBoost),
				floatParam("jitter", "Jitter", p.PointerJitter),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the tunables the HUD can step at runtime.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "decay", Label: "Decay", Step: 0.01, Min: 0, Max: 1},
		{Key: "attraction", Label: "Attraction", Step: 0.1, Min: 0.1, Max: 10},
		{Key: "max_speed", Label: "Max speed", Step: 10, Min: 10, Max: 500},
		{Key: "sensor_angle", Label: "Sensor angle", Step: 5, Min: 0, Max: 180},
		{Key: "sensor_distance", Label: "Sensor distance", Step: 1, Min: 0, Max: 50},
	}
}

// SetFloatParameter updates one control and pushes it to every agent. The
// value is clamped to the control's bounds.
func (w *World) SetFloatParameter(key string, value float64) bool {
	var ctrl core.ParameterControl
	found := false
	for _, c := range w.ParameterControls() {
		if c.Key == key {
			ctrl, found = c, true
			break
		}
	}
	if !found || !finite(value) {
		return false
	}
	value = ctrl.Clamp(value)

	p := &w.cfg.Params
	switch key {
	case "decay":
		p.DecayRate = value
		w.log.Debug("parameter updated", "key", key, "value", value)
		return true
	case "attraction":
		p.Attraction = value
	case "max_speed":
		p.MaxSpeed = value
	case "sensor_angle":
		p.SensorAngle = value
	case "sensor_distance":
		p.SensorDistance = value
	}
	for _, a := range w.agents {
		a.apply(*p)
	}
	w.log.Debug("parameter updated", "key", key, "value", value)
	return true
}

// StatusLines summarises the running world for the HUD.
func (w *World) StatusLines() []string {
	st := w.Stats()
	return []string{
		fmt.Sprintf("agents %d  field %dx%d", st.Agents, w.cfg.Width, w.cfg.Height),
		fmt.Sprintf("ticks %d", st.Ticks),
		fmt.Sprintf("mean speed %.1f", st.MeanSpeed),
	}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: value}
}
