package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// pep440Pattern accepts the PEP 440 public version scheme plus the usual
// spelling variants (alpha/beta/c/pre, separators, a leading v)
var pep440Pattern = regexp.MustCompile(`(?i)^v?(?:(\d+)!)?(\d+(?:\.\d+)*)` +
	`(?:[-_.]?(a|alpha|b|beta|c|rc|pre|preview)[-_.]?(\d+)?)?` +
	`(?:-(\d+)|[-_.]?(post|rev|r)[-_.]?(\d+)?)?` +
	`(?:[-_.]?(dev)[-_.]?(\d+)?)?` +
	`(?:\+[a-z0-9]+(?:[-_.][a-z0-9]+)*)?$`)

// Pre-release phases map to numeric identifiers so that semver ordering
// gives dev < a < b < rc.
var phaseRank = map[string]int{
	"a": 1, "alpha": 1,
	"b": 2, "beta": 2,
	"c": 3, "rc": 3, "pre": 3, "preview": 3,
}

// PEP440 is a parsed Python package version.
//
// The first three release segments and any pre-release are held as semver
// versions; epoch, extra release segments and post-releases are compared
// around them.
type PEP440 struct {
	raw   string
	epoch int
	extra []int // release segments after major.minor.patch
	core  *semver.Version
	full  *semver.Version
	post  [3]int // post number (-1 if none), dev flag (0 dev, 1 none), dev number
}

// ParsePEP440 parses a Python package version such as "2.31.0", "1.0rc1",
// "2023.10.post1" or "1!2.0.dev3"
func ParsePEP440(s string) (*PEP440, error) {
	raw := strings.TrimSpace(s)
	m := pep440Pattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("invalid version %q", s)
	}

	v := &PEP440{raw: raw, post: [3]int{-1, 1, 0}}

	if m[1] != "" {
		epoch, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid epoch in %q: %w", s, err)
		}
		v.epoch = epoch
	}

	release := make([]int, 0, 3)
	for _, part := range strings.Split(m[2], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid release segment in %q: %w", s, err)
		}
		release = append(release, n)
	}
	for len(release) < 3 {
		release = append(release, 0)
	}
	v.extra = release[3:]

	hasPost := m[5] != "" || m[6] != ""
	postNum := atoiOrZero(firstNonEmpty(m[5], m[7]))
	hasDev := m[8] != ""
	devNum := atoiOrZero(m[9])

	var pre string
	switch {
	case m[3] != "":
		pre = fmt.Sprintf("%d.%d", phaseRank[strings.ToLower(m[3])], atoiOrZero(m[4]))
		if hasDev && !hasPost {
			pre += fmt.Sprintf(".0.%d", devNum)
		} else {
			pre += ".1"
		}
	case hasDev && !hasPost:
		pre = fmt.Sprintf("0.%d", devNum)
	}

	if hasPost {
		v.post[0] = postNum
		if hasDev {
			v.post[1] = 0
			v.post[2] = devNum
		}
	}

	coreStr := fmt.Sprintf("%d.%d.%d", release[0], release[1], release[2])
	core, err := semver.StrictNewVersion(coreStr)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	v.core = core
	v.full = core
	if pre != "" {
		full, err := semver.StrictNewVersion(coreStr + "-" + pre)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", s, err)
		}
		v.full = full
	}

	return v, nil
}

// Compare returns -1, 0 or 1 depending on whether v sorts before, equal to or after o
func (v *PEP440) Compare(o *PEP440) int {
	if c := compareInt(v.epoch, o.epoch); c != 0 {
		return c
	}
	if c := v.core.Compare(o.core); c != 0 {
		return c
	}
	n := len(v.extra)
	if len(o.extra) > n {
		n = len(o.extra)
	}
	for i := 0; i < n; i++ {
		if c := compareInt(segment(v.extra, i), segment(o.extra, i)); c != 0 {
			return c
		}
	}
	if c := v.full.Compare(o.full); c != 0 {
		return c
	}
	for i := range v.post {
		if c := compareInt(v.post[i], o.post[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (v *PEP440) String() string {
	return v.raw
}

func segment(s []int, i int) int {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s != "" {
			return s
		}
	}
	return ""
}
