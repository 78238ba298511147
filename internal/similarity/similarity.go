package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// maxFeatures caps the TF-IDF vocabulary so pathological inputs stay cheap.
const maxFeatures = 1000

// Score computes a job-fit score between the resume and the job description
// as the cosine similarity of their TF-IDF vectors (unigrams and bigrams,
// English stop words removed), scaled to [0,100] and rounded to two decimals.
// A blank resume or job description yields 0 rather than an error.
func Score(resumeText, jobDescription string) float64 {
	resumeTerms := terms(resumeText)
	jobTerms := terms(jobDescription)
	if len(resumeTerms) == 0 || len(jobTerms) == 0 {
		return 0.0
	}

	vocab := buildVocabulary(resumeTerms, jobTerms)
	idf := inverseDocFrequency(vocab, resumeTerms, jobTerms)

	resumeVec := tfidfVector(resumeTerms, vocab, idf)
	jobVec := tfidfVector(jobTerms, vocab, idf)

	sim := cosine(resumeVec, jobVec)
	return math.Round(sim*100*100) / 100
}

// terms tokenizes text into lowercase unigrams and bigrams, dropping stop
// words and single-character tokens.
func terms(text string) []string {
	tokens := tokenize(text)
	result := make([]string, 0, len(tokens)*2)
	for i, tok := range tokens {
		result = append(result, tok)
		if i+1 < len(tokens) {
			result = append(result, tok+" "+tokens[i+1])
		}
	}
	return result
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// buildVocabulary keeps the most frequent terms across both documents,
// breaking ties alphabetically so the result is deterministic.
func buildVocabulary(docs ...[]string) map[string]int {
	counts := map[string]int{}
	for _, doc := range docs {
		for _, term := range doc {
			counts[term]++
		}
	}

	ordered := make([]string, 0, len(counts))
	for term := range counts {
		ordered = append(ordered, term)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if counts[ordered[i]] != counts[ordered[j]] {
			return counts[ordered[i]] > counts[ordered[j]]
		}
		return ordered[i] < ordered[j]
	})
	if len(ordered) > maxFeatures {
		ordered = ordered[:maxFeatures]
	}

	vocab := make(map[string]int, len(ordered))
	for i, term := range ordered {
		vocab[term] = i
	}
	return vocab
}

// inverseDocFrequency computes smoothed IDF, ln((1+n)/(1+df))+1, over the
// two-document corpus. Terms shared by both documents get a lower weight
// than terms unique to one.
func inverseDocFrequency(vocab map[string]int, docs ...[]string) []float64 {
	df := make([]int, len(vocab))
	for _, doc := range docs {
		seen := map[int]bool{}
		for _, term := range doc {
			if idx, ok := vocab[term]; ok && !seen[idx] {
				seen[idx] = true
				df[idx]++
			}
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}
	return idf
}

// tfidfVector builds an L2-normalized TF-IDF vector over the shared vocabulary.
func tfidfVector(doc []string, vocab map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(vocab))
	for _, term := range doc {
		if idx, ok := vocab[term]; ok {
			vec[idx]++
		}
	}
	for idx := range vec {
		vec[idx] *= idf[idx]
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

func cosine(a, b []float64) float64 {
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}
