package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/utils"
	"gopkg.in/yaml.v3"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if math.Abs(cfg.TypeWeights.Total()-1) > 1e-9 {
		t.Errorf("normalised weights sum = %v, want 1", cfg.TypeWeights.Total())
	}
	if cfg.GuardThreshold() != 700 {
		t.Errorf("GuardThreshold() = %d, want 700", cfg.GuardThreshold())
	}
}

// TestLoadProfile_RichMatchesDefault 内置 rich 配置应与 Default() 完全一致
func TestLoadProfile_RichMatchesDefault(t *testing.T) {
	rich, err := LoadProfile("rich")
	if err != nil {
		t.Fatalf("LoadProfile(rich) error: %v", err)
	}
	want := Default()
	if err := want.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if !reflect.DeepEqual(rich, want) {
		t.Errorf("LoadProfile(rich) differs from Default():\n got %+v\nwant %+v", rich, want)
	}
}

func TestLoadProfile_Classic(t *testing.T) {
	cfg, err := LoadProfile("Classic")
	if err != nil {
		t.Fatalf("LoadProfile(Classic) error: %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"配置名", cfg.Profile, "classic"},
		{"无尾迹", cfg.TrailLength, 0},
		{"渐变混合", cfg.Render.Blend, BlendGradient},
		{"粒子上限", cfg.MaxParticles, 600},
		{"覆盖 alphaDecay", cfg.Physics.AlphaDecay, 0.98},
		{"沿用 ascentSpeed", cfg.Physics.AscentSpeed, 15.0},
		{"沿用 gravity", cfg.Gravity, 0.2},
		{"覆盖 circle rings", cfg.Patterns.Circle.Rings, 3},
		{"沿用 circle colors 数量", len(cfg.Patterns.Circle.Colors), 4},
		{"无火花类型", len(cfg.Sparkle.Kinds), 0},
		{"权重表长度", len(cfg.TypeWeights), 5},
		{"权重表首项", cfg.TypeWeights[0].Kind, components.KindNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	table := cfg.ResolvePhysics()
	if table[components.KindHeart].AlphaDecay != 0.975 {
		t.Errorf("heart alphaDecay = %v, want 0.975", table[components.KindHeart].AlphaDecay)
	}
	if table[components.KindSparkle].AlphaDecay != 0.94 {
		t.Errorf("sparkle override should be inherited from defaults, got %v", table[components.KindSparkle].AlphaDecay)
	}
}

func TestLoadProfile_Unknown(t *testing.T) {
	_, err := LoadProfile("fancy")
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("LoadProfile(fancy) error = %v, want ErrUnknownProfile", err)
	}
	if !strings.Contains(err.Error(), "classic") {
		t.Errorf("error should list available profiles, got %q", err)
	}
}

func TestProfiles(t *testing.T) {
	got := Profiles()
	want := []string{"classic", "rich"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Profiles() = %v, want %v", got, want)
	}
}

func TestLoad_OverlayFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "show.yaml")
	data := `
spawnIntervalMs: 400
typeWeights:
  star: 1
  spiral: 3
patterns:
  star:
    colors: ["#00ff00"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SpawnIntervalMs != 400 {
		t.Errorf("SpawnIntervalMs = %v, want 400", cfg.SpawnIntervalMs)
	}
	if cfg.MaxParticles != 1000 {
		t.Errorf("MaxParticles = %d, want default 1000", cfg.MaxParticles)
	}
	want := TypeWeights{
		{Kind: components.KindStar, Weight: 0.25},
		{Kind: components.KindSpiral, Weight: 0.75},
	}
	if !reflect.DeepEqual(cfg.TypeWeights, want) {
		t.Errorf("TypeWeights = %v, want %v (YAML order, normalised)", cfg.TypeWeights, want)
	}
	if !reflect.DeepEqual(cfg.Patterns.Star.Colors, []string{"#00ff00"}) {
		t.Errorf("star colors = %v", cfg.Patterns.Star.Colors)
	}
	if cfg.Patterns.Star.Points != 5 {
		t.Errorf("star points = %d, want default 5", cfg.Patterns.Star.Points)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"负发射间隔", "spawnIntervalMs: -5"},
		{"粒子上限为零", "maxParticles: 0"},
		{"守卫比例越界", "poolGuardFraction: 1.5"},
		{"负尾迹长度", "trailLength: -1"},
		{"未知烟花类型", "typeWeights: {rocket: 1}"},
		{"非烟花类型权重", "typeWeights: {trail: 1}"},
		{"负权重", "typeWeights: {heart: -1, star: 2}"},
		{"权重全为零", "typeWeights: {heart: 0}"},
		{"重复类型", "typeWeights: {heart: 1, Heart: 1}"},
		{"权重不是数字", "typeWeights: {heart: lots}"},
		{"权重表不是映射", "typeWeights: [heart]"},
		{"衰减大于1", "physics: {alphaDecay: 1.2}"},
		{"alpha 不衰减", "physics: {alphaDecay: 1}"},
		{"按类型 alpha 不衰减", "kindPhysics: {star: {alphaDecay: 1}}"},
		{"移除阈值为负", "physics: {removalAlpha: -0.1}"},
		{"按类型移除阈值为负", "kindPhysics: {heart: {removalAlpha: -1}}"},
		{"按类型移除阈值为1", "kindPhysics: {heart: {removalAlpha: 1}}"},
		{"指针爱心不走按类型物理", "kindPhysics: {pointer: {alphaDecay: 0.9}}"},
		{"指针爱心调色板为空", "pointerTrail: {colors: []}"},
		{"指针爱心不淡出", "pointerTrail: {fadeSpeed: 0}"},
		{"指针爱心尺寸为零", "pointerTrail: {size: 0}"},
		{"未知混合模式", "render: {blend: screen}"},
		{"回退颜色格式错误", "render: {fallbackColor: white}"},
		{"顶点范围越界", "apexBand: [0, 1.5]"},
		{"火花类型未知", "sparkle: {kinds: [bogus]}"},
		{"按类型覆盖未知", "kindPhysics: {bogus: {alphaDecay: 0.9}}"},
		{"调色板为空", "patterns: {heart: {colors: []}}"},
		{"图案数量为零", "patterns: {spiral: {arms: 0}}"},
		{"YAML 语法错误", "maxParticles: [1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), Default()); err == nil {
				t.Errorf("Parse(%q) expected error", tt.data)
			}
		})
	}
}

func TestParse_PointerTrailDisabled(t *testing.T) {
	cfg, err := Parse([]byte("pointerTrail: {enabled: false, colors: [], fadeSpeed: 0}"), Default())
	if err != nil {
		t.Fatalf("disabled pointer trail should skip its checks: %v", err)
	}
	if cfg.PointerTrail.Enabled {
		t.Error("pointerTrail.enabled = true, want false")
	}
}

func TestTypeWeights_MarshalKeepsOrder(t *testing.T) {
	w := TypeWeights{
		{Kind: components.KindStar, Weight: 0.5},
		{Kind: components.KindHeart, Weight: 0.5},
	}
	out, err := yaml.Marshal(struct {
		W TypeWeights `yaml:"w"`
	}{w})
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	s := string(out)
	if strings.Index(s, "star") > strings.Index(s, "heart") {
		t.Errorf("marshalled weights lost order: %q", s)
	}
	if w.Weight(components.KindHeart) != 0.5 || w.Weight(components.KindSpiral) != 0 {
		t.Errorf("Weight lookup wrong")
	}
}

func TestResolvePhysics(t *testing.T) {
	cfg := Default()
	table := cfg.ResolvePhysics()

	if got := table[components.KindHeart]; got.AlphaDecay != 0.985 || got.VelocityDecay != 0.99 || got.RemovalAlpha != 0.05 || got.GravityScale != 1 {
		t.Errorf("heart physics = %+v, want defaults", got)
	}
	if got := table[components.KindSparkle]; got.AlphaDecay != 0.94 || got.GravityScale != 0.5 || got.VelocityDecay != 0.99 {
		t.Errorf("sparkle physics = %+v", got)
	}
	if got := table[components.KindTrail].RemovalAlpha; got != 0 {
		t.Errorf("trail removal alpha = %v, want 0", got)
	}
}

func TestSparkleKinds(t *testing.T) {
	kinds := Default().SparkleKinds()
	if !kinds[components.KindStar] || !kinds[components.KindChrysanthemum] || kinds[components.KindHeart] {
		t.Errorf("SparkleKinds() = %v", kinds)
	}
}

func TestClone_IsDeep(t *testing.T) {
	a := Default()
	b := a.Clone()
	b.Patterns.Heart.Colors[0] = "#000000"
	b.TypeWeights[0].Weight = 9
	b.KindPhysics["heart"] = KindPhysics{}
	if a.Patterns.Heart.Colors[0] == "#000000" || a.TypeWeights[0].Weight == 9 {
		t.Error("Clone shares slices with the original")
	}
	if _, ok := a.KindPhysics["heart"]; ok {
		t.Error("Clone shares kindPhysics map with the original")
	}
}

// 默认调色板中的颜色必须全部可解析
func TestDefaultPalettes_Parse(t *testing.T) {
	p := Default().Patterns
	palettes := [][]string{
		p.Normal.Colors, p.Heart.Colors, p.Circle.Colors, p.Double.Colors,
		p.Spiral.Colors, p.Star.Colors, p.Chrysanthemum.Colors,
	}
	for _, colors := range palettes {
		for _, c := range colors {
			if _, _, _, err := utils.ParseHexToChannels(c); err != nil {
				t.Errorf("palette color %q: %v", c, err)
			}
		}
	}
}
