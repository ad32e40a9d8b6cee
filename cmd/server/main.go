// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/handler"
	"mall-admin-go/internal/middleware"
	"mall-admin-go/internal/model"
	"mall-admin-go/internal/pipeline"
	"mall-admin-go/internal/repository"
	"mall-admin-go/internal/service"
	"mall-admin-go/internal/task"
	"mall-admin-go/pkg/authz"
	"mall-admin-go/pkg/database"
	"mall-admin-go/pkg/es"
	"mall-admin-go/pkg/kafka"
	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/storage"
	"mall-admin-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 与外部组件
	database.InitMySQL(cfg.Database.MySQL.DSN)
	if cfg.Database.MySQL.AutoMigrate {
		database.AutoMigrate(database.DB,
			&model.Department{}, &model.Permission{}, &model.Category{},
			&model.Role{}, &model.MemberLevel{}, &model.User{},
			&model.Product{}, &model.Sku{},
		)
	}
	database.InitRedis(cfg.Database.Redis)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	publisher := kafka.NewPublisher(cfg.Kafka)

	// 4. 初始化 Repository
	userRepo := repository.NewUserRepository(database.DB)
	roleRepo := repository.NewRoleRepository(database.DB)
	levelRepo := repository.NewMemberLevelRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)
	deptRepo := repository.NewTreeRepository[model.Department](database.DB)
	permRepo := repository.NewTreeRepository[model.Permission](database.DB)
	categoryRepo := repository.NewTreeRepository[model.Category](database.DB)
	cartRepo := repository.NewCartRepository(database.RDB)
	blacklist := repository.NewTokenBlacklist(database.RDB)

	// 5. 初始化鉴权
	authorizer, err := authz.NewAuthorizer(cfg.Authz.SuperRole)
	if err != nil {
		log.Fatalf("casbin 初始化失败: %v", err)
	}
	policies := service.NewPolicyService(roleRepo, authorizer)

	// 6. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	productIndex := es.NewProductIndex(es.ESClient, cfg.Elasticsearch.IndexName)
	images := storage.NewBucketStore(storage.MinioClient, cfg.MinIO.BucketName)

	userService := service.NewUserService(userRepo, levelRepo, blacklist, jwtManager)
	departmentService := service.NewDepartmentService(database.DB, deptRepo, userRepo, cfg.Tree.Department)
	permissionService := service.NewPermissionService(database.DB, permRepo, roleRepo, policies, cfg.Tree.Permission)
	categoryService := service.NewCategoryService(database.DB, categoryRepo, productRepo, publisher, cfg.Tree.Category)
	roleService := service.NewRoleService(database.DB, roleRepo, permRepo, userRepo, policies)
	adminService := service.NewAdminService(userRepo, roleRepo, levelRepo, departmentService)
	levelService := service.NewMemberLevelService(database.DB, levelRepo, userRepo)
	productService := service.NewProductService(productRepo, categoryService, images, publisher)
	cartService := service.NewCartService(cartRepo, productRepo, userRepo, levelRepo)
	searchService := service.NewSearchService(productIndex, categoryService)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := ensureSuperAdmin(seedCtx, cfg.Authz, roleRepo, userRepo); err != nil {
		log.Warnf("初始化超级管理员失败: %v", err)
	}
	if err := policies.Reload(seedCtx); err != nil {
		log.Fatalf("加载权限策略失败: %v", err)
	}
	cancelSeed()

	// 7. 启动索引同步：Kafka 消费者 + 定时全量重建
	processor := pipeline.NewProcessor(productRepo, categoryService, productIndex)
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		kafka.StartConsumer(consumerCtx, cfg.Kafka, processor)
	}()

	reindexTask := task.NewReindexTask(processor)
	if err := reindexTask.Start(cfg.Cron.ReindexSpec); err != nil {
		log.Fatalf("定时重建任务启动失败: %v", err)
	}

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	authed := middleware.AuthMiddleware(jwtManager, blacklist, userService)
	perm := func(code string) gin.HandlerFunc { return middleware.RequirePermission(authorizer, code) }

	// 9. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		userHandler := handler.NewUserHandler(userService)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/refreshToken", handler.NewAuthHandler(userService).RefreshToken)
		}

		users := apiV1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.GET("/me", authed, userHandler.GetProfile)
			users.POST("/logout", authed, userHandler.Logout)
		}

		protected := apiV1.Group("")
		protected.Use(authed)
		{
			registerTreeRoutes(protected.Group("/departments"), "department", handler.NewDepartmentHandler(departmentService), perm)
			registerTreeRoutes(protected.Group("/permissions"), "permission", handler.NewPermissionHandler(permissionService), perm)
			registerTreeRoutes(protected.Group("/categories"), "category", handler.NewCategoryHandler(categoryService), perm)

			roles := protected.Group("/roles")
			roleHandler := handler.NewRoleHandler(roleService)
			{
				roles.GET("", perm("role:list"), roleHandler.List)
				roles.GET("/:id", perm("role:list"), roleHandler.Get)
				roles.POST("", perm("role:create"), roleHandler.Create)
				roles.PUT("/:id", perm("role:update"), roleHandler.Update)
				roles.DELETE("/:id", perm("role:delete"), roleHandler.Delete)
				roles.GET("/:id/permissions", perm("role:list"), roleHandler.Permissions)
				roles.PUT("/:id/permissions", perm("role:assign"), roleHandler.AssignPermissions)
			}

			adminUsers := protected.Group("/admin/users")
			adminHandler := handler.NewAdminHandler(adminService)
			{
				adminUsers.GET("", perm("user:list"), adminHandler.ListUsers)
				adminUsers.PUT("/:id/role", perm("user:assign"), adminHandler.AssignRole)
				adminUsers.PUT("/:id/department", perm("user:assign"), adminHandler.AssignDepartment)
				adminUsers.PUT("/:id/member-level", perm("user:assign"), adminHandler.AssignMemberLevel)
				adminUsers.PUT("/:id/status", perm("user:update"), adminHandler.SetStatus)
			}

			levels := protected.Group("/member-levels")
			levelHandler := handler.NewMemberLevelHandler(levelService)
			{
				levels.GET("", perm("member-level:list"), levelHandler.List)
				levels.GET("/:id", perm("member-level:list"), levelHandler.Get)
				levels.POST("", perm("member-level:create"), levelHandler.Create)
				levels.PUT("/:id", perm("member-level:update"), levelHandler.Update)
				levels.DELETE("/:id", perm("member-level:delete"), levelHandler.Delete)
			}

			productHandler := handler.NewProductHandler(productService)
			products := protected.Group("/products")
			{
				products.GET("", perm("product:list"), productHandler.List)
				products.GET("/:id", perm("product:list"), productHandler.Get)
				products.POST("", perm("product:create"), productHandler.Create)
				products.PUT("/:id", perm("product:update"), productHandler.Update)
				products.DELETE("/:id", perm("product:delete"), productHandler.Delete)
				products.POST("/:id/image", perm("product:update"), productHandler.UploadImage)
				products.GET("/:id/image-url", perm("product:list"), productHandler.ImageURL)
				products.GET("/:id/skus", perm("product:list"), productHandler.ListSkus)
				products.POST("/:id/skus", perm("product:update"), productHandler.CreateSku)
			}
			skus := protected.Group("/skus")
			{
				skus.PUT("/:skuId", perm("product:update"), productHandler.UpdateSku)
				skus.DELETE("/:skuId", perm("product:update"), productHandler.DeleteSku)
			}

			searchHandler := handler.NewSearchHandler(searchService, reindexTask)
			protected.GET("/search/products", searchHandler.SearchProducts)
			protected.POST("/admin/search/reindex", perm("search:reindex"), searchHandler.Reindex)

			cartHandler := handler.NewCartHandler(cartService)
			cart := protected.Group("/cart")
			{
				cart.GET("", cartHandler.Get)
				cart.DELETE("", cartHandler.Clear)
				cart.POST("/items", cartHandler.AddItem)
				cart.PUT("/items/:skuId", cartHandler.UpdateItem)
				cart.DELETE("/items/:skuId", cartHandler.RemoveItem)
			}
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}

	reindexTask.Stop()
	cancelConsumer()
	<-consumerDone
	if err := publisher.Close(); err != nil {
		log.Warnf("关闭 Kafka 生产者失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

// treeRoutes 是三种层级实体 handler 共有的路由方法。
type treeRoutes interface {
	Tree(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Path(c *gin.Context)
	Descendants(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// registerTreeRoutes 注册层级实体的路由，权限编码形如 "department:list"。
func registerTreeRoutes(g *gin.RouterGroup, kind string, h treeRoutes, perm func(string) gin.HandlerFunc) {
	read := perm(kind + ":list")
	g.GET("/tree", read, h.Tree)
	g.GET("", read, h.List)
	g.GET("/:id", read, h.Get)
	g.GET("/:id/path", read, h.Path)
	g.GET("/:id/descendants", read, h.Descendants)
	g.POST("", perm(kind+":create"), h.Create)
	g.PUT("/:id", perm(kind+":update"), h.Update)
	g.DELETE("/:id", perm(kind+":delete"), h.Delete)
}
