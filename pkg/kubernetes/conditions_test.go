package kubernetes

import (
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestMergeConditions_PreservesTransitionTimeWhenUnchanged(t *testing.T) {
	fixed := metav1.NewTime(metav1.Now().Time)
	previous := []metav1.Condition{
		{Type: "Ready", Status: metav1.ConditionTrue, Reason: "Ok", Message: "ok", LastTransitionTime: fixed},
	}
	next := []metav1.Condition{
		{Type: "Ready", Status: metav1.ConditionTrue, Reason: "Ok", Message: "ok"},
	}

	merged := MergeConditions(previous, next)
	if len(merged) != 1 {
		t.Fatalf("len(merged) = %d, want 1", len(merged))
	}
	if !merged[0].LastTransitionTime.Equal(&fixed) {
		t.Fatalf("LastTransitionTime changed despite unchanged status/reason/message")
	}
}

func TestMergeConditions_ReplacesOnChange(t *testing.T) {
	fixed := metav1.NewTime(metav1.Now().Time)
	previous := []metav1.Condition{
		{Type: "Ready", Status: metav1.ConditionFalse, Reason: "Waiting", Message: "waiting", LastTransitionTime: fixed},
	}
	next := []metav1.Condition{
		{Type: "Ready", Status: metav1.ConditionTrue, Reason: "Ok", Message: "ok"},
	}

	merged := MergeConditions(previous, next)
	if merged[0].Status != metav1.ConditionTrue || merged[0].Reason != "Ok" {
		t.Fatalf("merged[0] = %+v, want updated condition", merged[0])
	}
}

func TestMergeConditions_AppendsNewTypesAtTail(t *testing.T) {
	previous := []metav1.Condition{{Type: "Ready", Status: metav1.ConditionTrue}}
	next := []metav1.Condition{
		{Type: "Ready", Status: metav1.ConditionTrue},
		{Type: "Initialized", Status: metav1.ConditionTrue},
	}

	merged := MergeConditions(previous, next)
	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	if merged[0].Type != "Ready" || merged[1].Type != "Initialized" {
		t.Fatalf("merged = %+v, want [Ready, Initialized] in order", merged)
	}
}

func TestMergeConditions_PreservesStaleTypeNotInNext(t *testing.T) {
	previous := []metav1.Condition{
		{Type: "Ready", Status: metav1.ConditionTrue},
		{Type: "Legacy", Status: metav1.ConditionFalse},
	}
	next := []metav1.Condition{{Type: "Ready", Status: metav1.ConditionTrue}}

	merged := MergeConditions(previous, next)
	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2 (Legacy carried forward)", len(merged))
	}
}

func TestSetCondition_InsertsAndTransitions(t *testing.T) {
	now := metav1.Now()
	conditions := SetCondition(nil, "Ready", metav1.ConditionFalse, "Waiting", "waiting", now)
	if len(conditions) != 1 || conditions[0].Status != metav1.ConditionFalse {
		t.Fatalf("unexpected initial conditions: %+v", conditions)
	}

	later := metav1.NewTime(now.Add(1))
	conditions = SetCondition(conditions, "Ready", metav1.ConditionTrue, "Ok", "ok", later)
	if conditions[0].Status != metav1.ConditionTrue {
		t.Fatalf("status did not transition")
	}
	if !conditions[0].LastTransitionTime.Equal(&later) {
		t.Fatalf("LastTransitionTime did not update on status change")
	}
}
