package imageset_test

import (
	"math/rand"
	"testing"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/imageset"
	"atelier/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func img(url string) models.CreationImage {
	return models.CreationImage{ID: uuid.New(), URL: "https://cdn.example.com/photos/" + url, StoragePath: url}
}

func urls(set []models.CreationImage) []string {
	out := make([]string, len(set))
	for i, im := range set {
		out[i] = im.StoragePath
	}
	return out
}

func primaryIndex(set []models.CreationImage) int {
	for i, im := range set {
		if im.IsPrimary {
			return i
		}
	}
	return -1
}

func TestAdd(t *testing.T) {
	var set []models.CreationImage

	first := img("a.jpg")
	first.IsPrimary = false
	set = imageset.Add(set, first)

	second := img("b.jpg")
	second.IsPrimary = true
	set = imageset.Add(set, second)

	require.Len(t, set, 2)
	assert.True(t, set[0].IsPrimary)
	assert.False(t, set[1].IsPrimary)
	assert.Equal(t, 0, set[0].DisplayOrder)
	assert.Equal(t, 1, set[1].DisplayOrder)
	assert.NoError(t, imageset.Check(set))
}

func TestRemove_ReassignsPrimary(t *testing.T) {
	var set []models.CreationImage
	a, b, c := img("a.jpg"), img("b.jpg"), img("c.jpg")
	set = imageset.Add(set, a)
	set = imageset.Add(set, b)
	set = imageset.Add(set, c)

	out, removal, err := imageset.Remove(set, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"b.jpg", "c.jpg"}, urls(out))
	assert.True(t, out[0].IsPrimary)
	assert.Equal(t, 0, out[0].DisplayOrder)
	assert.False(t, out[1].IsPrimary)
	assert.Equal(t, 1, out[1].DisplayOrder)

	assert.Equal(t, a.ID, removal.ImageID)
	assert.Equal(t, "a.jpg", removal.Path)
	assert.True(t, removal.Persisted())

	// исходный набор не изменился
	assert.Len(t, set, 3)
	assert.True(t, set[0].IsPrimary)
}

func TestRemove_NotPersistedYieldsOnlyBlob(t *testing.T) {
	set := imageset.Add(nil, models.CreationImage{URL: "https://cdn.example.com/x/new.png"})

	out, removal, err := imageset.Remove(set, 0)
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.False(t, removal.Persisted())
	assert.Equal(t, "new.png", removal.Path)
}

func TestRemove_NonPrimaryKeepsPrimary(t *testing.T) {
	set := imageset.Add(nil, img("a.jpg"))
	set = imageset.Add(set, img("b.jpg"))
	set = imageset.Add(set, img("c.jpg"))
	set, err := imageset.SetPrimary(set, 2)
	require.NoError(t, err)

	out, _, err := imageset.Remove(set, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, primaryIndex(out))
	assert.NoError(t, imageset.Check(out))
}

func TestSetPrimary(t *testing.T) {
	set := imageset.Add(nil, img("a.jpg"))
	set = imageset.Add(set, img("b.jpg"))

	out, err := imageset.SetPrimary(set, 1)
	require.NoError(t, err)

	assert.False(t, out[0].IsPrimary)
	assert.True(t, out[1].IsPrimary)

	_, err = imageset.SetPrimary(set, 2)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestMove(t *testing.T) {
	set := imageset.Add(nil, img("a.jpg"))
	set = imageset.Add(set, img("b.jpg"))
	set = imageset.Add(set, img("c.jpg"))
	set = imageset.Add(set, img("d.jpg"))

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "forward", from: 0, to: 2, want: []string{"b.jpg", "c.jpg", "a.jpg", "d.jpg"}},
		{name: "backward", from: 3, to: 0, want: []string{"d.jpg", "a.jpg", "b.jpg", "c.jpg"}},
		{name: "to end", from: 1, to: 3, want: []string{"a.jpg", "c.jpg", "d.jpg", "b.jpg"}},
		{name: "same position", from: 2, to: 2, want: []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := imageset.Move(set, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, urls(out))
			assert.NoError(t, imageset.Check(out))
		})
	}

	_, err := imageset.Move(set, -1, 0)
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = imageset.Move(set, 0, 4)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, urls(set))
}

func TestNormalize(t *testing.T) {
	in := []models.CreationImage{
		{StoragePath: "c", DisplayOrder: 7, IsPrimary: true},
		{StoragePath: "a", DisplayOrder: 1},
		{StoragePath: "b", DisplayOrder: 3, IsPrimary: true},
	}

	out := imageset.Normalize(in)

	assert.Equal(t, []string{"a", "b", "c"}, urls(out))
	assert.Equal(t, 1, primaryIndex(out))
	assert.NoError(t, imageset.Check(out))

	none := imageset.Normalize([]models.CreationImage{{StoragePath: "x", DisplayOrder: 4}})
	assert.True(t, none[0].IsPrimary)
	assert.Equal(t, 0, none[0].DisplayOrder)

	assert.Empty(t, imageset.Normalize(nil))
}

func TestCheck(t *testing.T) {
	assert.NoError(t, imageset.Check(nil))

	twoPrimaries := []models.CreationImage{
		{DisplayOrder: 0, IsPrimary: true},
		{DisplayOrder: 1, IsPrimary: true},
	}
	assert.ErrorIs(t, imageset.Check(twoPrimaries), errs.ErrValidation)

	gap := []models.CreationImage{
		{DisplayOrder: 0, IsPrimary: true},
		{DisplayOrder: 2},
	}
	assert.ErrorIs(t, imageset.Check(gap), errs.ErrValidation)

	noPrimary := []models.CreationImage{{DisplayOrder: 0}}
	assert.ErrorIs(t, imageset.Check(noPrimary), errs.ErrValidation)
}

func TestInvariantsHoldUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		var set []models.CreationImage

		for step := 0; step < 40; step++ {
			var err error

			switch op := rng.Intn(4); {
			case op == 0 || len(set) == 0:
				set = imageset.Add(set, img(uuid.NewString()))
			case op == 1:
				set, _, err = imageset.Remove(set, rng.Intn(len(set)))
			case op == 2:
				set, err = imageset.SetPrimary(set, rng.Intn(len(set)))
			default:
				set, err = imageset.Move(set, rng.Intn(len(set)), rng.Intn(len(set)))
			}

			require.NoError(t, err)
			require.NoError(t, imageset.Check(set), "run %d step %d", run, step)
		}
	}
}
