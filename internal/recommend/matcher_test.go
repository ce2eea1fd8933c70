// Package recommend_test tests the recommend package
package recommend_test

import (
	"reflect"
	"testing"

	"github.com/flosclinic/benmeibot/internal/recommend"
	"github.com/flosclinic/benmeibot/internal/taxonomy"
)

const matcherDoc = `
categories:
  - id: laser
    name: 雷射光電
    treatments:
      - { id: pico, name: 皮秒雷射 }
  - id: iv_drip
    name: 點滴療程
    treatments:
      - { id: whitening_drip, name: 美白點滴 }
  - id: botox
    name: 肉毒注射
    treatments:
      - { id: botox_wrinkle, name: 肉毒除皺 }
  - id: rf_ultrasound
    name: 電音波
    treatments:
      - { id: thermage, name: 電波拉提 }
  - id: hair_removal
    name: 雷射除毛
    treatments:
      - { id: laser_hair, name: 雷射除毛 }
  - id: dermapen
    name: 微針療程
    treatments:
      - { id: dermapen4, name: 微針電動飛梭 }
keywords:
  - { keyword: 美白, categories: [laser, iv_drip] }
  - { keyword: 除毛, categories: [hair_removal] }
  - { keyword: 毛孔, categories: [dermapen] }
  - { keyword: 除皺, categories: [botox] }
`

func newTestMatcher(t *testing.T) *recommend.Matcher {
	t.Helper()
	tax, err := taxonomy.Parse([]byte(matcherDoc))
	if err != nil {
		t.Fatalf("failed to parse test taxonomy: %v", err)
	}
	return recommend.NewMatcher(tax)
}

func TestMatcherMatch(t *testing.T) {
	t.Parallel()

	m := newTestMatcher(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: "   ",
			want: nil,
		},
		{
			name: "no match at all",
			text: "今天天氣真好",
			want: nil,
		},
		{
			name: "single keyword",
			text: "我想要美白",
			want: []string{"laser", "iv_drip"},
		},
		{
			name: "two keywords keep declaration order",
			text: "想除皺也想美白",
			want: []string{"laser", "iv_drip", "botox"},
		},
		{
			name: "duplicate categories deduplicated",
			text: "美白 美白",
			want: []string{"laser", "iv_drip"},
		},
		{
			name: "fallback dull complexion",
			text: "皮膚好暗沉",
			want: []string{"laser", "iv_drip"},
		},
		{
			name: "fallback wrinkles",
			text: "有細紋怎麼辦",
			want: []string{"botox", "rf_ultrasound"},
		},
		{
			name: "fallback sagging",
			text: "臉頰下垂",
			want: []string{"rf_ultrasound"},
		},
		{
			name: "fallback hair",
			text: "腿毛好多",
			want: []string{"hair_removal"},
		},
		{
			name: "pore complaint is not hair removal",
			text: "毛孔粗大",
			want: []string{"dermapen"},
		},
		{
			name: "keyword match suppresses fallback pass",
			text: "想除毛也很暗沉",
			want: []string{"hair_removal"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := m.Match(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Match(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}
