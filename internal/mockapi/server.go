// Package mockapi is an embedded Fake Store compatible server, used for
// offline demos and integration tests. It implements exactly the slice
// of the API the storefront consumes: product listings, categories,
// login, registration, and user lookup.
package mockapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/golang-jwt/jwt/v4"

	"shopfront/internal/logging"
	"shopfront/internal/storeapi"
)

// DefaultSecret signs tokens when no secret is configured. Fine for a
// mock; never used against a real service.
const DefaultSecret = "shopfront-dev-secret"

// Server is the mock store API.
type Server struct {
	app      *fiber.App
	repo     *repository
	secret   []byte
	log      *logging.Logger
	stopFns  []func()
	tokenTTL time.Duration
}

// Options configures a Server.
type Options struct {
	SeedPath string // empty means the embedded seed
	Secret   string
	Watch    bool // hot-reload the seed file on change
}

// NewServer builds the mock server and registers its routes.
func NewServer(opts Options) (*Server, error) {
	seed, err := LoadSeed(opts.SeedPath)
	if err != nil {
		return nil, err
	}

	secret := opts.Secret
	if secret == "" {
		secret = DefaultSecret
	}

	s := &Server{
		app:      fiber.New(fiber.Config{DisableStartupMessage: true}),
		repo:     newRepository(seed),
		secret:   []byte(secret),
		log:      logging.Get(logging.CategoryMockAPI),
		tokenTTL: 24 * time.Hour,
	}
	s.app.Use(cors.New())
	s.registerRoutes()

	if opts.Watch && opts.SeedPath != "" {
		stop, err := s.repo.watchSeed(opts.SeedPath)
		if err != nil {
			return nil, err
		}
		s.stopFns = append(s.stopFns, stop)
	}

	return s, nil
}

// App exposes the fiber app for tests (app.Test) and custom listeners.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on the given address until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("mock store API listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server and any seed watcher.
func (s *Server) Shutdown() error {
	for _, stop := range s.stopFns {
		stop()
	}
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	s.app.Get("/products", s.getProducts)
	s.app.Get("/products/categories", s.getCategories)
	s.app.Get("/products/category/:category", s.getProductsByCategory)
	s.app.Get("/products/:id", s.getProduct)
	s.app.Post("/auth/login", s.login)
	s.app.Post("/users", s.createUser)
	s.app.Get("/users/:id", s.getUser)
}

func (s *Server) getProducts(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return c.JSON(s.repo.allProducts(limit))
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	p, ok := s.repo.product(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	return c.JSON(p)
}

func (s *Server) getProductsByCategory(c *fiber.Ctx) error {
	products := s.repo.byCategory(c.Params("category"))
	if products == nil {
		products = []storeapi.Product{}
	}
	return c.JSON(products)
}

func (s *Server) getCategories(c *fiber.Ctx) error {
	return c.JSON(s.repo.categories())
}

func (s *Server) login(c *fiber.Ctx) error {
	payload := new(storeapi.Credentials)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	user, ok := s.repo.userByCredentials(payload.Username, payload.Password)
	if !ok {
		s.log.Debug("login rejected for %q", payload.Username)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "username or password is incorrect"})
	}

	claims := jwt.MapClaims{
		"sub":  strconv.Itoa(user.ID),
		"user": user.Username,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to sign token"})
	}

	return c.JSON(fiber.Map{"token": signed})
}

func (s *Server) createUser(c *fiber.Ctx) error {
	payload := new(storeapi.Registration)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Username == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "username and password are required"})
	}
	user := s.repo.createUser(*payload)
	s.log.Info("registered user %d (%s)", user.ID, user.Username)
	return c.JSON(user)
}

func (s *Server) getUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}
	user, ok := s.repo.user(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}
	return c.JSON(user)
}
