package creature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Data)
		ok     bool
	}{
		{"defaults", func(*Data) {}, true},
		{"still", func(d *Data) { d.IdleStrategy = IdleStill }, true},
		{"scripted_without_script", func(d *Data) { d.IdleStrategy = IdleScripted }, false},
		{"scripted", func(d *Data) { d.IdleStrategy = IdleScripted; d.IdleScript = "fox.tengo" }, true},
		{"unknown_idle", func(d *Data) { d.IdleStrategy = "nap" }, false},
		{"unknown_chase", func(d *Data) { d.ChaseStrategy = "fly" }, false},
		{"negative_radius", func(d *Data) { d.PatrolRadius = -1 }, false},
		{"missing_param", func(d *Data) { d.Params.State = "" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := DefaultData()
			tc.mutate(&d)
			err := d.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidData)
			}
		})
	}

	var nilData *Data
	assert.ErrorIs(t, nilData.Validate(), ErrInvalidData)
}
