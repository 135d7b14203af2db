package kubernetes

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// MergeConditions combines a freshly-computed set of conditions with the
// previously-observed set, preserving LastTransitionTime for any condition
// whose Status/Reason/Message did not change, and appending condition types
// that are new to the tail so insertion order reflects discovery order.
// Mirrors the original implementation's ConditionsExt::merge_from.
func MergeConditions(previous, next []metav1.Condition) []metav1.Condition {
	merged := make([]metav1.Condition, 0, len(previous))

	for _, p := range previous {
		n, ok := findCondition(next, p.Type)
		if !ok {
			merged = append(merged, p)
			continue
		}
		if p.Status == n.Status && p.Reason == n.Reason && p.Message == n.Message {
			merged = append(merged, p)
		} else {
			merged = append(merged, n)
		}
	}

	for _, n := range next {
		if _, ok := findCondition(merged, n.Type); !ok {
			merged = append(merged, n)
		}
	}

	return merged
}

func findCondition(conditions []metav1.Condition, condType string) (metav1.Condition, bool) {
	for _, c := range conditions {
		if c.Type == condType {
			return c, true
		}
	}
	return metav1.Condition{}, false
}

// SetCondition returns a copy of conditions with a condition of the given
// type set to the provided status/reason/message, refreshing
// LastTransitionTime only when the status actually changes. Callers
// typically pass the result through MergeConditions against the object's
// previously-observed status.
func SetCondition(conditions []metav1.Condition, condType string, status metav1.ConditionStatus, reason, message string, now metav1.Time) []metav1.Condition {
	for i, c := range conditions {
		if c.Type != condType {
			continue
		}
		updated := c
		if c.Status != status {
			updated.Status = status
			updated.LastTransitionTime = now
		}
		updated.Reason = reason
		updated.Message = message
		result := append([]metav1.Condition{}, conditions...)
		result[i] = updated
		return result
	}

	return append(append([]metav1.Condition{}, conditions...), metav1.Condition{
		Type:               condType,
		Status:             status,
		LastTransitionTime: now,
		Reason:             reason,
		Message:            message,
	})
}
