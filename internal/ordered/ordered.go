// Package ordered fournit une map typée qui conserve l'ordre d'insertion :
// réécrire une clé existante remplace la valeur sans changer sa position.
package ordered

import "github.com/emirpasic/gods/maps/linkedhashmap"

type Map[K comparable, V any] struct {
	m *linkedhashmap.Map
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: linkedhashmap.New()}
}

// Put insère ou remplace la valeur de k (première position, dernière valeur).
func (o *Map[K, V]) Put(k K, v V) {
	o.m.Put(k, v)
}

func (o *Map[K, V]) Get(k K) (V, bool) {
	var zero V
	v, ok := o.m.Get(k)
	if !ok {
		return zero, false
	}
	return v.(V), true
}

func (o *Map[K, V]) Len() int {
	if o == nil || o.m == nil {
		return 0
	}
	return o.m.Size()
}

// Keys retourne les clés dans l'ordre d'insertion.
func (o *Map[K, V]) Keys() []K {
	if o.Len() == 0 {
		return nil
	}
	out := make([]K, 0, o.m.Size())
	for _, k := range o.m.Keys() {
		out = append(out, k.(K))
	}
	return out
}

// Values retourne les valeurs dans l'ordre d'insertion des clés.
func (o *Map[K, V]) Values() []V {
	if o.Len() == 0 {
		return nil
	}
	out := make([]V, 0, o.m.Size())
	for _, v := range o.m.Values() {
		out = append(out, v.(V))
	}
	return out
}
