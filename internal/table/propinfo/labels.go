package propinfo

import "strings"

// LabelCollisionMap groups the simple property infos sharing a label text.
type LabelCollisionMap map[string][]int

// newLabelCollisionMap indexes every labeled, non-composite property info.
func newLabelCollisionMap(infos []PropertyInfo) LabelCollisionMap {
	collisions := make(LabelCollisionMap)
	for i := range infos {
		if infos[i].IsComposite() || infos[i].Label == "" {
			continue
		}
		collisions[infos[i].Label] = append(collisions[infos[i].Label], i)
	}
	return collisions
}

// resolveLabelCollisions suffixes colliding labels of navigated properties
// with their additional labels, then clears AdditionalLabels everywhere.
func resolveLabelCollisions(infos []PropertyInfo) {
	for _, indexes := range newLabelCollisionMap(infos) {
		if len(indexes) < 2 {
			continue
		}
		for _, i := range indexes {
			info := &infos[i]
			if strings.Contains(info.Path, "/") && len(info.AdditionalLabels) > 0 {
				info.Label += " (" + strings.Join(info.AdditionalLabels, " / ") + ")"
			}
		}
	}

	for i := range infos {
		infos[i].AdditionalLabels = nil
	}
}
