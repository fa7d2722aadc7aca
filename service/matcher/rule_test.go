package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanForm(t *testing.T) {
	testCases := []struct {
		description            string
		tanks, healers, damage int
		expect                 bool
	}{
		{description: "exact composition", tanks: 1, healers: 1, damage: 3, expect: true},
		{description: "surplus everywhere", tanks: 4, healers: 2, damage: 9, expect: true},
		{description: "empty queues", tanks: 0, healers: 0, damage: 0, expect: false},
		{description: "no tank", tanks: 0, healers: 5, damage: 10, expect: false},
		{description: "no healer", tanks: 2, healers: 0, damage: 10, expect: false},
		{description: "two damage only", tanks: 1, healers: 1, damage: 2, expect: false},
	}
	for _, testCase := range testCases {
		actual := CanForm(testCase.tanks, testCase.healers, testCase.damage)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}
