package core

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Index is the document store and inverted index backing the `d*`
// commands: a title → body document table plus a token → posting
// set index. The table itself is unordered; Search sorts its results
// by title. Posting lists are mapset.Set[string], which makes an
// overwrite's index update a set difference: old tokens minus new
// tokens are removed, new tokens minus old tokens are added.
type Index struct {
	docs     map[string]string
	postings map[string]mapset.Set[string]
}

// NewIndex returns an empty document index.
func NewIndex() *Index {
	return &Index{
		docs:     make(map[string]string),
		postings: make(map[string]mapset.Set[string]),
	}
}

// Set inserts or overwrites the document titled title. On overwrite,
// the posting lists are updated so that only tokens of the new body
// remain indexed under title; the transition is applied so that no
// reader ever observes a half-updated index.
func (idx *Index) Set(title, body string) {
	newSet := mapset.NewSet[string](tokenize(body)...)

	if oldBody, existed := idx.docs[title]; existed {
		oldSet := mapset.NewSet[string](tokenize(oldBody)...)
		for tok := range oldSet.Difference(newSet).Iter() {
			idx.removePosting(tok, title)
		}
		for tok := range newSet.Difference(oldSet).Iter() {
			idx.addPosting(tok, title)
		}
	} else {
		for tok := range newSet.Iter() {
			idx.addPosting(tok, title)
		}
	}

	idx.docs[title] = body
}

func (idx *Index) addPosting(token, title string) {
	set, ok := idx.postings[token]
	if !ok {
		set = mapset.NewSet[string]()
		idx.postings[token] = set
	}
	set.Add(title)
}

func (idx *Index) removePosting(token, title string) {
	set, ok := idx.postings[token]
	if !ok {
		return
	}
	set.Remove(title)
	if set.Cardinality() == 0 {
		delete(idx.postings, token)
	}
}

// Get returns the body of title, if present.
func (idx *Index) Get(title string) (string, bool) {
	body, ok := idx.docs[title]
	return body, ok
}

// Delete removes title and purges its tokens from the index, reporting
// whether it was present.
func (idx *Index) Delete(title string) bool {
	body, ok := idx.docs[title]
	if !ok {
		return false
	}
	for _, tok := range tokenize(body) {
		idx.removePosting(tok, title)
	}
	delete(idx.docs, title)
	return true
}

// Len returns the number of live documents.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// Search tokenizes word, keeps only its first token, and returns every
// document whose body contains that token, ordered by title ascending.
func (idx *Index) Search(word string) []KV {
	tokens := tokenize(word)
	if len(tokens) == 0 {
		return nil
	}

	set, ok := idx.postings[tokens[0]]
	if !ok {
		return nil
	}

	titles := set.ToSlice()
	sort.Strings(titles)

	out := make([]KV, 0, len(titles))
	for _, title := range titles {
		out = append(out, KV{Key: title, Val: idx.docs[title]})
	}
	return out
}

// --- Keyspace-facing d* operations ---

func (ks *Keyspace) DSet(key, title, body string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	idx, err := ks.indexFor(key, true)
	if err != nil {
		return err
	}
	idx.Set(title, body)
	return nil
}

func (ks *Keyspace) DGet(key, title string) (string, bool, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	idx, err := ks.indexFor(key, false)
	if err != nil || idx == nil {
		return "", false, err
	}
	body, ok := idx.Get(title)
	return body, ok, nil
}

func (ks *Keyspace) DDel(key, title string) (int, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	idx, err := ks.indexFor(key, false)
	if err != nil || idx == nil {
		return 0, err
	}
	if !idx.Delete(title) {
		return 0, nil
	}
	if idx.Len() == 0 {
		delete(ks.m, key)
	}
	return 1, nil
}

func (ks *Keyspace) DLen(key string) (int, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	idx, err := ks.indexFor(key, false)
	if err != nil || idx == nil {
		return 0, err
	}
	return idx.Len(), nil
}

func (ks *Keyspace) DSearch(key, word string) ([]KV, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	idx, err := ks.indexFor(key, false)
	if err != nil || idx == nil {
		return nil, err
	}
	return idx.Search(word), nil
}
