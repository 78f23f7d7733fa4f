package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/smctune/internal/control"
)

const (
	DefaultDt                = 0.001
	DefaultDuration          = 5.0
	DefaultTheta1            = 0.1
	DefaultTheta2            = 0.05
	DefaultTrackingThreshold = 0.1
	DefaultPenaltyScale      = 1000.0
	DefaultParticles         = 30
	DefaultIterations        = 150
)

type Config struct {
	Controller string          `yaml:"controller"`
	Sim        SimConfig       `yaml:"sim"`
	InitState  InitStateConfig `yaml:"init_state"`
	Fitness    FitnessConfig   `yaml:"fitness"`
	PSO        PSOConfig       `yaml:"pso"`
	Bounds     []Bound         `yaml:"bounds"`
}

type SimConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
}

type InitStateConfig struct {
	X         float64 `yaml:"x"`
	Theta1    float64 `yaml:"theta1"`
	Theta2    float64 `yaml:"theta2"`
	XDot      float64 `yaml:"xdot"`
	Theta1Dot float64 `yaml:"theta1dot"`
	Theta2Dot float64 `yaml:"theta2dot"`
}

type FitnessConfig struct {
	TrackingThreshold float64 `yaml:"tracking_threshold"`
	PenaltyScale      float64 `yaml:"penalty_scale"`
}

type PSOConfig struct {
	Particles  int     `yaml:"particles"`
	Iterations int     `yaml:"iterations"`
	Inertia    float64 `yaml:"inertia"`
	Cognitive  float64 `yaml:"cognitive"`
	Social     float64 `yaml:"social"`
	Seed       int64   `yaml:"seed"`
	Workers    int     `yaml:"workers"`
}

type Bound struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: control.VariantClassical,
		Sim: SimConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
		},
		InitState: InitStateConfig{
			Theta1: DefaultTheta1,
			Theta2: DefaultTheta2,
		},
		Fitness: FitnessConfig{
			TrackingThreshold: DefaultTrackingThreshold,
			PenaltyScale:      DefaultPenaltyScale,
		},
		PSO: PSOConfig{
			Particles:  DefaultParticles,
			Iterations: DefaultIterations,
			Inertia:    0.7,
			Cognitive:  1.5,
			Social:     1.5,
		},
		Bounds: ClassicalBounds,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the gain bounds match the controller variant's
// arity and are well ordered.
func (c *Config) Validate() error {
	n, err := control.GainCount(c.Controller)
	if err != nil {
		return err
	}
	if len(c.Bounds) != n {
		return fmt.Errorf("controller %q needs %d gain bounds, got %d", c.Controller, n, len(c.Bounds))
	}
	for i, b := range c.Bounds {
		if b.Min >= b.Max {
			return fmt.Errorf("bound %d is empty: [%f, %f]", i, b.Min, b.Max)
		}
	}
	if c.Sim.Dt <= 0 || c.Sim.Duration <= 0 {
		return fmt.Errorf("sim dt and duration must be positive")
	}
	return nil
}

// BoundsBox converts the configured bounds into the optimizer's form.
func (c *Config) BoundsBox() [][2]float64 {
	box := make([][2]float64, len(c.Bounds))
	for i, b := range c.Bounds {
		box[i] = [2]float64{b.Min, b.Max}
	}
	return box
}

// InitStateVec lays out the initial condition in plant state order.
func (c *Config) InitStateVec() []float64 {
	return []float64{
		c.InitState.X,
		c.InitState.Theta1,
		c.InitState.Theta2,
		c.InitState.XDot,
		c.InitState.Theta1Dot,
		c.InitState.Theta2Dot,
	}
}
