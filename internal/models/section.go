package models

import "fmt"

// SectionKind discriminates the two section shapes a period can belong to.
type SectionKind string

const (
	SectionKindClass SectionKind = "CLASS"
	SectionKindArm   SectionKind = "CLASS_ARM"
)

// Section identifies either a whole class or a single class arm. Exactly one
// of the two applies to any period, so consumers switch on Kind instead of
// null-checking two parallel foreign keys.
type Section struct {
	Kind SectionKind `json:"kind"`
	ID   string      `json:"id"`
}

// ClassSection builds a Section covering a whole class.
func ClassSection(classID string) Section {
	return Section{Kind: SectionKindClass, ID: classID}
}

// ArmSection builds a Section covering a single class arm.
func ArmSection(classArmID string) Section {
	return Section{Kind: SectionKindArm, ID: classArmID}
}

// IsZero reports whether the section is unset.
func (s Section) IsZero() bool {
	return s.ID == ""
}

// Key returns a stable identifier usable in maps and cache keys.
func (s Section) Key() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.ID)
}

// ClassID returns the class id when the section is a whole class.
func (s Section) ClassID() *string {
	if s.Kind == SectionKindClass && s.ID != "" {
		id := s.ID
		return &id
	}
	return nil
}

// ClassArmID returns the arm id when the section is a class arm.
func (s Section) ClassArmID() *string {
	if s.Kind == SectionKindArm && s.ID != "" {
		id := s.ID
		return &id
	}
	return nil
}

// SectionFromRefs reconstructs the variant from the two optional columns. The
// arm reference wins when both are populated, matching the narrower scope.
func SectionFromRefs(classID, classArmID *string) Section {
	if classArmID != nil && *classArmID != "" {
		return ArmSection(*classArmID)
	}
	if classID != nil && *classID != "" {
		return ClassSection(*classID)
	}
	return Section{}
}
