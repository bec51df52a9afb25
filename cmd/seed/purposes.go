package main

import "ncip-portal/internal/dto"

func req(name string, mandatory bool) dto.RequirementRequest {
	return dto.RequirementRequest{Name: name, IsMandatory: &mandatory}
}

const (
	birthCert = "Birth Certificate (PSA Copy)"
	validID   = "Valid Government ID"
	indigency = "Certificate of Indigency"
	medCert   = "Medical Certificate"
	photo2x2  = "Recent 2x2 Photo"
	optional  = false
	mandatory = true
)

var defaultPurposes = []dto.CreatePurposeRequest{
	{
		Name:        "Educational Assistance",
		Description: "For students seeking educational support",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req("School ID", mandatory),
			req("Certificate of Enrollment", mandatory),
			req("Latest Report Card/Grades", mandatory),
			req(indigency, optional),
		},
	},
	{
		Name:        "Scholarship Application",
		Description: "For scholarship programs",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req(indigency, mandatory),
			req("School Records/Transcript", mandatory),
			req("Recommendation Letter", mandatory),
			req("Application Essay", optional),
		},
	},
	{
		Name:        "Employment",
		Description: "For job applications and employment verification",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req(validID, mandatory),
			req("Resume/CV", mandatory),
			req("NBI Clearance", optional),
			req("Police Clearance", optional),
		},
	},
	{
		Name:        "Business Permit",
		Description: "For business registration and permits",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req(validID, mandatory),
			req("Business Plan", mandatory),
			req("Barangay Clearance", mandatory),
			req("Location Sketch/Map", optional),
		},
	},
	{
		Name:         "Land Claim/Ancestral Domain",
		Description:  "For ancestral land claims and domain applications",
		DeadlineDays: 60,
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req("Tax Declaration", mandatory),
			req("Land Survey/Sketch Plan", mandatory),
			req("Affidavit of Ownership", mandatory),
			req("Witness Affidavits (2 persons)", mandatory),
		},
	},
	{
		Name:        "Health/Medical Assistance",
		Description: "For medical and health-related assistance",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req(medCert, mandatory),
			req("Hospital Bills/Medical Records", mandatory),
			req(indigency, mandatory),
			req("Doctor's Prescription", optional),
		},
	},
	{
		Name:        "Housing Assistance",
		Description: "For housing programs and relocation",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req("Marriage Certificate (if married)", optional),
			req(indigency, mandatory),
			req("Proof of Residency", mandatory),
			req("Family Photo", optional),
		},
	},
	{
		Name:        "Livelihood Program",
		Description: "For livelihood and skills training programs",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req(validID, mandatory),
			req(indigency, optional),
			req("Skills Training Certificate (if any)", optional),
			req("Business Proposal", mandatory),
		},
	},
	{
		Name:        "Senior Citizen Benefits",
		Description: "For senior citizen ID and benefits",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req(validID, mandatory),
			req(photo2x2, mandatory),
			req("Proof of Age (60 years old and above)", mandatory),
		},
	},
	{
		Name:        "PWD Benefits",
		Description: "For persons with disability benefits",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req(medCert+" (PWD)", mandatory),
			req(validID, mandatory),
			req(photo2x2, mandatory),
			req("Disability Assessment Form", mandatory),
		},
	},
	{
		Name:        "Other Purpose",
		Description: "For other purposes not listed",
		Requirements: []dto.RequirementRequest{
			req(birthCert, mandatory),
			req(validID, mandatory),
			req("Supporting Documents", optional),
		},
	},
}
