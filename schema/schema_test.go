package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/btoon-format/btoon/value"
)

func TestVersion_CompareOrdering(t *testing.T) {
	require.True(t, (Version{1, 0, 0}).Less(Version{1, 0, 1}))
	require.True(t, (Version{1, 0, 9}).Less(Version{1, 1, 0}))
	require.True(t, (Version{1, 9, 9}).Less(Version{2, 0, 0}))
	require.True(t, (Version{1, 0, 0}).Equal(Version{1, 0, 0}))
	require.False(t, (Version{2, 0, 0}).Less(Version{1, 9, 9}))
}

func TestVersion_String(t *testing.T) {
	require.Equal(t, "1.2.3", Version{1, 2, 3}.String())
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)
	require.Equal(t, Version{1, 2, 3}, v)

	_, err = ParseVersion("1.2")
	require.Error(t, err)

	_, err = ParseVersion("a.b.c")
	require.Error(t, err)
}

func TestBuilder_Defaults(t *testing.T) {
	s := NewSchema("user").Build()
	require.Equal(t, "user", s.Name)
	require.Equal(t, Version{1, 0, 0}, s.Version)
	require.Equal(t, Additive, s.Evolution)
	require.Empty(t, s.Fields)
}

func TestBuilder_ChainedConstruction(t *testing.T) {
	s := NewSchema("user").
		WithVersion(Version{2, 1, 0}).
		WithDescription("a user record").
		WithEvolution(Strict).
		WithMetadata("owner", value.String("team-x")).
		AddField(Field{Name: "id", Type: "int", Required: true}).
		AddField(Field{Name: "name", Type: "string", Required: false}).
		Build()

	require.Equal(t, Version{2, 1, 0}, s.Version)
	require.Equal(t, "a user record", s.Description)
	require.Equal(t, Strict, s.Evolution)
	require.Equal(t, value.String("team-x"), s.Metadata["owner"])
	require.Len(t, s.Fields, 2)

	f, ok := s.FieldByName("id")
	require.True(t, ok)
	require.True(t, f.Required)

	_, ok = s.FieldByName("missing")
	require.False(t, ok)
}

func TestSchema_MigrateSameVersionIsIdentity(t *testing.T) {
	s := NewSchema("user").WithVersion(Version{1, 0, 0}).Build()
	v := value.String("payload")
	got, err := s.Migrate(v, Version{1, 0, 0})
	require.NoError(t, err)
	require.True(t, value.Equal(v, got))
}

func TestSchema_MigrateNoPathErrors(t *testing.T) {
	s := NewSchema("user").WithVersion(Version{1, 0, 0}).Build()
	_, err := s.Migrate(value.String("x"), Version{2, 0, 0})
	require.Error(t, err)
}

func TestSchema_MigrateExactMatch(t *testing.T) {
	s := NewSchema("user").WithVersion(Version{1, 0, 0}).Build()
	s.RegisterMigration(Version{1, 0, 0}, Version{2, 0, 0}, func(v value.Value) (value.Value, error) {
		return value.String(v.String_() + "-migrated"), nil
	})
	got, err := s.Migrate(value.String("x"), Version{2, 0, 0})
	require.NoError(t, err)
	require.Equal(t, "x-migrated", got.String_())
}
