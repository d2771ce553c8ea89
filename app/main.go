// Файл: main.go

package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"company-registry/internal/repositories"
	"company-registry/internal/services"
	"company-registry/pkg/config"
	"company-registry/pkg/database"
	applogger "company-registry/pkg/logger"
	"company-registry/pkg/validation"
)

func main() {
	drop := flag.Bool("drop", false, "Удалить таблицы перед созданием")
	importPath := flag.String("import", "", "Путь к XLSX-файлу со списком департаментов и сотрудников")
	list := flag.Bool("list", false, "Вывести департаменты вместе с сотрудниками")
	flag.Parse()

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	policy, err := services.ParseDeletePolicy(cfg.Registry.DepartmentDeletePolicy)
	if err != nil {
		logger.Fatal("Неверная конфигурация", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer db.Close()

	v := validation.New()
	departmentRepo := repositories.NewDepartmentRepository(db, logger)
	employeeRepo := repositories.NewEmployeeRepository(db, logger)
	txManager := repositories.NewTxManager(db)

	departmentService := services.NewDepartmentService(departmentRepo, employeeRepo, txManager, v, policy, logger)
	employeeService := services.NewEmployeeService(employeeRepo, departmentRepo, v, logger)

	if *drop {
		// employees ссылается на departments, поэтому удаляется первой
		if err := employeeService.DropTable(ctx); err != nil {
			logger.Fatal("Ошибка удаления таблицы", zap.Error(err))
		}
		if err := departmentService.DropTable(ctx); err != nil {
			logger.Fatal("Ошибка удаления таблицы", zap.Error(err))
		}
	}
	if err := departmentService.CreateTable(ctx); err != nil {
		logger.Fatal("Ошибка создания таблицы", zap.Error(err))
	}
	if err := employeeService.CreateTable(ctx); err != nil {
		logger.Fatal("Ошибка создания таблицы", zap.Error(err))
	}

	sess := services.NewSession()

	if *importPath != "" {
		importer := services.NewRosterImportService(departmentService, employeeService, logger)
		if _, err := importer.Import(ctx, sess, *importPath); err != nil {
			logger.Fatal("Ошибка импорта", zap.String("file", *importPath), zap.Error(err))
		}
	}

	if *list {
		departments, err := departmentService.GetAll(ctx)
		if err != nil {
			logger.Fatal("Ошибка чтения департаментов", zap.Error(err))
		}
		for _, d := range departments {
			employees, err := departmentService.Employees(ctx, sess, d)
			if err != nil {
				logger.Fatal("Ошибка чтения сотрудников", zap.Error(err))
			}
			logger.Info("Департамент",
				zap.Int64("id", d.ID.Int64),
				zap.String("name", d.Name),
				zap.String("location", d.Location),
				zap.Int("employees", len(employees)))
			for _, e := range employees {
				logger.Info("  Сотрудник",
					zap.Int64("id", e.ID.Int64),
					zap.String("name", e.Name),
					zap.String("job_title", e.JobTitle))
			}
		}
	}

	logger.Info("✅ Готово")
}
