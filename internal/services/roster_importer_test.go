package services

import (
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func (s *RegistryTestSuite) writeWorkbook(sheets map[string][][]interface{}) string {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			s.Require().NoError(f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			s.Require().NoError(err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			s.Require().NoError(err)
			r := row
			s.Require().NoError(f.SetSheetRow(name, cell, &r))
		}
	}

	path := filepath.Join(s.T().TempDir(), "roster.xlsx")
	s.Require().NoError(f.SaveAs(path))
	return path
}

func (s *RegistryTestSuite) TestRosterImport() {
	existing := s.mustDepartment("Legal", "Floor 9")

	path := s.writeWorkbook(map[string][][]interface{}{
		"departments": {
			{"Name", "Location"},
			{"Engineering", "HQ"},
			{"Ops", "DC"},
			{"Broken", ""},
			{"", ""},
			{"Total", "2"},
		},
		"Employees": {
			{"Name", "Job Title", "Department"},
			{"Ada", "Engineer", "Engineering"},
			{"Grace", "SRE", "Ops"},
			{"Ruth", "Counsel", "Legal"},
			{"Nobody", "Ghost", "Marketing"},
			{"Empty", "", "Ops"},
		},
	})

	importer := NewRosterImportService(s.Departments, s.Employees, zap.NewNop())
	result, err := importer.Import(s.ctx, s.Session, path)
	s.Require().NoError(err)

	s.Equal(2, result.Departments)
	s.Equal(3, result.Employees)
	s.Equal(3, result.Failed)

	eng, err := s.Departments.FindByName(s.ctx, "Engineering")
	s.Require().NoError(err)
	members, err := s.Departments.Employees(s.ctx, s.Session, eng)
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal("Ada", members[0].Name)

	ruth, err := s.Employees.FindByName(s.ctx, s.Session, "Ruth")
	s.Require().NoError(err)
	s.Equal(existing.ID.Int64, ruth.DepartmentID)
}

func (s *RegistryTestSuite) TestRosterImport_MissingSheetsAndFile() {
	path := s.writeWorkbook(map[string][][]interface{}{
		"notes": {{"hello"}},
	})

	importer := NewRosterImportService(s.Departments, s.Employees, zap.NewNop())
	result, err := importer.Import(s.ctx, s.Session, path)
	s.Require().NoError(err)
	s.Equal(ImportResult{}, *result)

	_, err = importer.Import(s.ctx, s.Session, filepath.Join(s.T().TempDir(), "missing.xlsx"))
	s.Error(err)
}

func (s *RegistryTestSuite) TestRosterImport_NamesStartingWithSummaryWords() {
	path := s.writeWorkbook(map[string][][]interface{}{
		"departments": {
			{"Name", "Location"},
			{"Eng", "HQ"},
			{"Totalis", "Annex"},
			{"Итого:", ""},
		},
		"employees": {
			{"Name", "Job Title", "Department"},
			{"Totally Real Person", "Engineer", "Eng"},
			{"Всеволод", "Analyst", "Totalis"},
			{"TOTAL", "", ""},
			{"Всего", "", ""},
		},
	})

	importer := NewRosterImportService(s.Departments, s.Employees, zap.NewNop())
	result, err := importer.Import(s.ctx, s.Session, path)
	s.Require().NoError(err)

	s.Equal(2, result.Departments)
	s.Equal(2, result.Employees)
	s.Equal(0, result.Failed)

	person, err := s.Employees.FindByName(s.ctx, s.Session, "Totally Real Person")
	s.Require().NoError(err)
	s.Equal("Engineer", person.JobTitle)

	_, err = s.Departments.FindByName(s.ctx, "Totalis")
	s.NoError(err)
}

func (s *RegistryTestSuite) TestIsTrash() {
	for in, want := range map[string]bool{
		"":                    true,
		"   ":                 true,
		"Total":               true,
		" total: ":            true,
		"ИТОГО":               true,
		"всего :":             true,
		"Totally Real Person": false,
		"Totalis":             false,
		"Всеволод":            false,
		"Итоговый отдел":      false,
	} {
		s.Equal(want, isTrash(in), in)
	}
}
