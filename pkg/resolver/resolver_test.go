package resolver

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphsmith/graphsmith/pkg/models"
	"github.com/graphsmith/graphsmith/pkg/testutil"
)

type fakeProgramStore map[string]*models.Program

func (s fakeProgramStore) ProgramByName(name string) (*models.Program, bool) {
	p, ok := s[name]

	return p, ok
}

func newTestResolver(programs ...*models.Program) *Resolver {
	store := make(fakeProgramStore)
	for _, p := range programs {
		store[p.Name] = p
	}

	return NewResolver(slog.Default(), testutil.CreateTestCatalog(), store)
}

func TestResolveProgram_Found(t *testing.T) {
	program := testutil.CreateTestProgram()
	r := newTestResolver(program)

	resolved, err := r.ResolveProgram(program.Name)
	require.NoError(t, err)
	assert.Same(t, program, resolved)
}

func TestResolveProgram_NotFound(t *testing.T) {
	r := newTestResolver()

	_, err := r.ResolveProgram("BP_Missing")
	require.Error(t, err)
	assert.True(t, IsProgramNotFound(err))
}

func TestResolveGraph_DefaultRoleCreatedOnce(t *testing.T) {
	program := testutil.CreateTestProgram()
	r := newTestResolver(program)

	first, err := r.ResolveGraph(program, "")
	require.NoError(t, err)
	assert.Equal(t, models.GraphRoleEvent, first.Role)

	second, err := r.ResolveGraph(program, "event")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, program.Graphs, 1)
}

func TestResolveGraph_NonDefaultRoleMustExist(t *testing.T) {
	program := testutil.CreateTestProgram()
	r := newTestResolver(program)

	_, err := r.ResolveGraph(program, "function")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphNotFound)
}

func TestResolveTargetType_Literal(t *testing.T) {
	r := newTestResolver()

	target, searched := r.ResolveTargetType("Actor")
	require.NotNil(t, target)
	assert.Equal(t, "Actor", target.Name)
	assert.Equal(t, []string{"Actor"}, searched)
}

func TestResolveTargetType_ComponentSuffix(t *testing.T) {
	r := newTestResolver()

	target, searched := r.ResolveTargetType("PointLight")
	require.NotNil(t, target)
	assert.Equal(t, "PointLightComponent", target.Name)
	assert.Contains(t, searched, "UPointLight")
	assert.Contains(t, searched, "UPointLightComponent")
}

func TestResolveTargetType_WellKnownAlias(t *testing.T) {
	r := newTestResolver()

	target, _ := r.ResolveTargetType("UGameplayStatics")
	require.NotNil(t, target)
	assert.Equal(t, "GameplayStatics", target.Name)
}

func TestResolveTargetType_NotFoundListsAttempts(t *testing.T) {
	r := newTestResolver()

	target, searched := r.ResolveTargetType("Nothing")
	assert.Nil(t, target)
	assert.Equal(t, []string{"Nothing", "UNothing", "UNothingComponent", "NothingComponent"}, searched)
}

func TestResolveCallable_OnHintedType(t *testing.T) {
	program := testutil.CreateTestProgram()
	r := newTestResolver(program)

	fn, err := r.ResolveCallable(program, "GetActorOfClass", "GameplayStatics")
	require.NoError(t, err)
	assert.Equal(t, "GameplayStatics", fn.OwnerType)
}

func TestResolveCallable_WalksAncestors(t *testing.T) {
	// SetActorHiddenInGame is declared on Actor, two levels above Character.
	program := testutil.CreateTestProgram()
	r := newTestResolver(program)

	fn, err := r.ResolveCallable(program, "SetActorHiddenInGame", "Character")
	require.NoError(t, err)
	assert.Equal(t, "Actor", fn.OwnerType)
}

func TestResolveCallable_CaseInsensitiveOnAncestor(t *testing.T) {
	program := testutil.CreateTestProgram()
	r := newTestResolver(program)

	fn, err := r.ResolveCallable(program, "setactorhiddeningame", "Character")
	require.NoError(t, err)
	assert.Equal(t, "SetActorHiddenInGame", fn.Name)
}

func TestResolveCallable_SuffixHintThenFoldOnAncestor(t *testing.T) {
	// The two fallback layers compose: the hint resolves only through the
	// Component-suffix step, and the callable matches only
	// case-insensitively on an ancestor of the resolved type.
	cat := testutil.CreateTestCatalog()
	cat.RegisterType(&models.TypeDescriptor{
		Name:   "SpotLightComponent",
		Path:   "/Script/Engine.SpotLightComponent",
		Parent: "PointLightComponent",
	})
	r := NewResolver(slog.Default(), cat, make(fakeProgramStore))

	fn, err := r.ResolveCallable(nil, "setintensity", "SpotLight")
	require.NoError(t, err)
	assert.Equal(t, "SetIntensity", fn.Name)
	assert.Equal(t, "PointLightComponent", fn.OwnerType)
}

func TestResolveCallable_FallsBackToBehaviorType(t *testing.T) {
	program := testutil.CreateTestProgram()
	r := newTestResolver(program)

	fn, err := r.ResolveCallable(program, "Jump", "")
	require.NoError(t, err)
	assert.Equal(t, "Character", fn.OwnerType)
}

func TestResolveCallable_NotFoundCarriesSearchedTypes(t *testing.T) {
	program := testutil.CreateTestProgram()
	r := newTestResolver(program)

	_, err := r.ResolveCallable(program, "Teleport", "Character")
	require.Error(t, err)
	assert.True(t, IsSymbolNotFound(err))

	var symbolErr *SymbolError
	require.ErrorAs(t, err, &symbolErr)
	assert.Contains(t, symbolErr.SearchedTypes, "Character")
	assert.Contains(t, symbolErr.SearchedTypes, "Actor")
}

func TestResolveVariable_Lenient(t *testing.T) {
	program := testutil.CreateTestProgram()
	r := newTestResolver(program)

	v, ok := r.ResolveVariable(program, "Health")
	require.True(t, ok)
	assert.Equal(t, models.FloatType(), v.Type)

	missing, ok := r.ResolveVariable(program, "Mana")
	assert.False(t, ok)
	assert.Nil(t, missing)
}
