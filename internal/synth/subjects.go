package synth

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/schoolsynth/schoolsynth/internal/models"
)

// SubjectAssigner fills each student's subject load from their track's
// fixed subjects plus random electives.
type SubjectAssigner struct {
	rng    *rand.Rand
	tracks map[models.Course][]int
}

// NewSubjectAssigner creates a SubjectAssigner. tracks maps each course to
// the subject ids every student on it takes.
func NewSubjectAssigner(rng *rand.Rand, tracks map[models.Course][]int) (*SubjectAssigner, error) {
	for course, ids := range tracks {
		if !course.Valid() {
			return nil, fmt.Errorf("unknown course %q", course)
		}
		if len(uniqueInts(ids)) > models.SubjectLoad {
			return nil, fmt.Errorf("%s track has more than %d subjects", course, models.SubjectLoad)
		}
	}

	copied := make(map[models.Course][]int, len(tracks))
	for course, ids := range tracks {
		copied[course] = uniqueInts(ids)
	}
	return &SubjectAssigner{rng: rng, tracks: copied}, nil
}

// TracksFromSubjects builds the track sets from a subject list: general
// subjects plus the subjects of the track's own category.
func TracksFromSubjects(subjects []*models.Subject) (tracks map[models.Course][]int, electives []int) {
	tracks = map[models.Course][]int{}
	for _, s := range subjects {
		switch s.Category {
		case models.SubjectGeneral:
			for _, c := range models.Courses {
				tracks[c] = append(tracks[c], s.SubjectID)
			}
		case models.SubjectScience:
			tracks[models.CourseScience] = append(tracks[models.CourseScience], s.SubjectID)
		case models.SubjectArt:
			tracks[models.CourseArt] = append(tracks[models.CourseArt], s.SubjectID)
		case models.SubjectElective:
			electives = append(electives, s.SubjectID)
		}
	}
	return tracks, electives
}

// Assign returns exactly models.SubjectLoad subject ids in ascending order:
// the course's track subjects plus electives drawn at random from pool.
// Pool entries already in the track, and repeats, do not count towards the
// electives available.
func (a *SubjectAssigner) Assign(course models.Course, pool []int) ([]int, error) {
	track, ok := a.tracks[course]
	if !ok {
		return nil, fmt.Errorf("unknown course %q", course)
	}

	chosen := make(map[int]bool, models.SubjectLoad)
	for _, id := range track {
		chosen[id] = true
	}

	var candidates []int
	for _, id := range uniqueInts(pool) {
		if !chosen[id] {
			candidates = append(candidates, id)
		}
	}

	needed := models.SubjectLoad - len(track)
	if len(candidates) < needed {
		return nil, &InsufficientElectivesError{Course: course, Needed: needed, Available: len(candidates)}
	}

	for len(chosen) < models.SubjectLoad {
		i := a.rng.Intn(len(candidates))
		chosen[candidates[i]] = true
		candidates[i] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
	}

	out := make([]int, 0, len(chosen))
	for id := range chosen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

func uniqueInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
