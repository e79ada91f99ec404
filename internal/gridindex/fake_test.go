package gridindex

import (
	"errors"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

type attrs map[string]interface{}

func (a attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	return keys
}

func (a attrs) Get(key string) (interface{}, bool) {
	v, ok := a[key]
	return v, ok
}

type fakeDataset struct {
	order  []string
	vars   map[string]*api.Variable
	loaded []string
	global attrs
}

// fakeGetter serves metadata only; the embedded nil VarGetter panics on
// any method that would read data.
type fakeGetter struct {
	api.VarGetter
	v *api.Variable
}

func (g *fakeGetter) Attributes() api.AttributeMap { return g.v.Attributes }
func (g *fakeGetter) Dimensions() []string        { return g.v.Dimensions }

func newFakeDataset() *fakeDataset {
	return &fakeDataset{vars: map[string]*api.Variable{}}
}

func (f *fakeDataset) add(name string, values interface{}, attributes attrs, dims ...string) *fakeDataset {
	if len(dims) == 0 {
		dims = []string{name}
	}
	f.order = append(f.order, name)
	f.vars[name] = &api.Variable{Values: values, Dimensions: dims, Attributes: attributes}
	return f
}

func (f *fakeDataset) ListVariables() []string {
	return f.order
}

func (f *fakeDataset) GetVariable(name string) (*api.Variable, error) {
	v, ok := f.vars[name]
	if !ok {
		return nil, errors.New("no such variable")
	}
	f.loaded = append(f.loaded, name)
	return v, nil
}

func (f *fakeDataset) GetVarGetter(name string) (api.VarGetter, error) {
	v, ok := f.vars[name]
	if !ok {
		return nil, errors.New("no such variable")
	}
	return &fakeGetter{v: v}, nil
}

func (f *fakeDataset) Attributes() api.AttributeMap {
	return f.global
}

type fakeSink struct {
	global api.AttributeMap
	order  []string
	vars   map[string]api.Variable
}

func (s *fakeSink) AddAttributes(a api.AttributeMap) error {
	s.global = a
	return nil
}

func (s *fakeSink) AddVar(name string, v api.Variable) error {
	if s.vars == nil {
		s.vars = map[string]api.Variable{}
	}
	s.order = append(s.order, name)
	s.vars[name] = v
	return nil
}
