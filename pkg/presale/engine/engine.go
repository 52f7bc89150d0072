package engine

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/config"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/config/env"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/metrics"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/presale/ledger"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/presale/oracle"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/presale/pricing"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana/chainlink"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana/presale"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana/token"
)

const (
	envMinQuoteAmount     = "presale_min_quote_amount"
	defaultMinQuoteAmount = 1
)

var (
	// ErrAlreadyInitialized indicates the sale configuration has already been
	// created.
	ErrAlreadyInitialized = errors.New("program config already initialized")

	// ErrNotInitialized indicates the sale configuration doesn't exist yet.
	ErrNotInitialized = errors.New("program config not initialized")

	// ErrUnauthorized indicates the caller isn't the configured admin.
	ErrUnauthorized = errors.New("signer is not the admin")
)

// Engine executes sale operations against a ledger. Every operation runs as
// a single serialized transaction: all validations observe committed state,
// and effects are published atomically or not at all.
type Engine struct {
	log            *logrus.Entry
	ledger         *ledger.Ledger
	minQuoteAmount config.Uint64
}

type Option func(*Engine)

// WithLogger overrides the default logger.
func WithLogger(log *logrus.Entry) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithMinQuoteAmount overrides the minimum purchasable amount of sale
// tokens, expressed in base units.
func WithMinQuoteAmount(conf config.Uint64) Option {
	return func(e *Engine) {
		e.minQuoteAmount = conf
	}
}

func New(l *ledger.Ledger, opts ...Option) *Engine {
	e := &Engine{
		log:            logrus.StandardLogger().WithField("type", "presale/engine"),
		ledger:         l,
		minQuoteAmount: env.NewUint64Config(envMinQuoteAmount, defaultMinQuoteAmount),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// InitializeArgs carries the initial sale configuration.
type InitializeArgs struct {
	Admin                 ed25519.PublicKey
	CollectedFundsAccount ed25519.PublicKey
	ChainlinkProgram      ed25519.PublicKey
	SaleMint              ed25519.PublicKey
	UsdPrice              uint64
	UsdDecimals           uint8
	Feeds                 []presale.PriceFeedInfo
}

// Initialize creates the singleton sale configuration and the sale token
// vault. It can succeed at most once per ledger.
func (e *Engine) Initialize(ctx context.Context, args *InitializeArgs) error {
	log := e.log.WithFields(logrus.Fields{
		"method": "Initialize",
		"admin":  base58.Encode(args.Admin),
	})

	tracer := metrics.TraceMethodCall(ctx, "engine", "Initialize")
	defer tracer.End()

	configAddress, _, err := presale.GetConfigAddress()
	if err != nil {
		return err
	}
	vaultAddress, _, err := presale.GetVaultAddress()
	if err != nil {
		return err
	}

	err = e.ledger.Execute(ctx, func(tx *ledger.Transaction) error {
		if tx.HasAccount(configAddress) {
			return ErrAlreadyInitialized
		}

		programConfig := &presale.ProgramConfig{
			Admin:                 args.Admin,
			CollectedFundsAccount: args.CollectedFundsAccount,
			ChainlinkProgram:      args.ChainlinkProgram,
			HasPresaleEnded:       false,
			UsdPrice:              args.UsdPrice,
			UsdDecimals:           args.UsdDecimals,
			Feeds:                 args.Feeds,
		}
		if err := tx.CreateAccount(configAddress, presale.PROGRAM_ID, programConfig.Marshal()); err != nil {
			return err
		}

		// The vault is its own authority, so sale tokens can only leave it
		// through settlement or an admin withdrawal.
		return tx.CreateTokenAccount(vaultAddress, args.SaleMint, vaultAddress)
	})
	if err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure initializing program config")
		return err
	}

	log.Debug("program config initialized")
	return nil
}

// UpdateConfig applies a partial update to the sale configuration. Nil
// fields are left unchanged; only the admin may call it.
func (e *Engine) UpdateConfig(ctx context.Context, caller ed25519.PublicKey, args *presale.UpdateProgramConfigInstructionArgs) error {
	log := e.log.WithFields(logrus.Fields{
		"method": "UpdateConfig",
		"caller": base58.Encode(caller),
	})

	tracer := metrics.TraceMethodCall(ctx, "engine", "UpdateConfig")
	defer tracer.End()

	configAddress, _, err := presale.GetConfigAddress()
	if err != nil {
		return err
	}

	err = e.ledger.Execute(ctx, func(tx *ledger.Transaction) error {
		programConfig, err := getProgramConfig(tx, configAddress)
		if err != nil {
			return err
		}

		if !bytes.Equal(programConfig.Admin, caller) {
			return ErrUnauthorized
		}

		if args.Admin != nil {
			programConfig.Admin = args.Admin
		}
		if args.Feeds != nil {
			programConfig.Feeds = *args.Feeds
		}
		if args.HasPresaleEnded != nil {
			programConfig.HasPresaleEnded = *args.HasPresaleEnded
		}
		if args.UsdPrice != nil {
			programConfig.UsdPrice = *args.UsdPrice
		}
		if args.UsdDecimals != nil {
			programConfig.UsdDecimals = *args.UsdDecimals
		}
		if args.CollectedFundsAccount != nil {
			programConfig.CollectedFundsAccount = args.CollectedFundsAccount
		}
		if args.ChainlinkProgram != nil {
			programConfig.ChainlinkProgram = args.ChainlinkProgram
		}

		return tx.SetAccountData(configAddress, programConfig.Marshal())
	})
	if err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure updating program config")
		return err
	}

	log.Debug("program config updated")
	return nil
}

// BuyArgs describes a purchase: who pays, with what asset, and through
// which oracle accounts the payment is priced. The collected funds token
// account isn't supplied; it is always the associated token account of the
// configured collected funds wallet in the payer mint.
type BuyArgs struct {
	Buyer             ed25519.PublicKey
	PayerMint         ed25519.PublicKey
	PayerTokenAccount ed25519.PublicKey
	ChainlinkFeed     ed25519.PublicKey
	ChainlinkProgram  ed25519.PublicKey
	VaultMint         ed25519.PublicKey
	PayerMintAmount   uint64
}

// Buy settles a purchase: the payment moves to the collected funds account
// and the quoted amount of sale tokens moves from the vault into the
// buyer's vault, all atomically. It returns the amount of sale tokens
// credited.
func (e *Engine) Buy(ctx context.Context, args *BuyArgs) (uint64, error) {
	log := e.log.WithFields(logrus.Fields{
		"method":     "Buy",
		"buyer":      base58.Encode(args.Buyer),
		"payer_mint": base58.Encode(args.PayerMint),
		"amount":     args.PayerMintAmount,
	})

	tracer := metrics.TraceMethodCall(ctx, "engine", "Buy")
	defer tracer.End()

	configAddress, _, err := presale.GetConfigAddress()
	if err != nil {
		return 0, err
	}
	vaultAddress, _, err := presale.GetVaultAddress()
	if err != nil {
		return 0, err
	}
	userVaultAddress, _, err := presale.GetUserVaultAddress(&presale.GetUserVaultAddressArgs{
		Owner: args.Buyer,
	})
	if err != nil {
		return 0, err
	}

	var tokenAmount uint64
	err = e.ledger.Execute(ctx, func(tx *ledger.Transaction) error {
		programConfig, err := getProgramConfig(tx, configAddress)
		if err != nil {
			return err
		}

		vaultAccount, err := tx.GetTokenAccount(vaultAddress)
		if err != nil {
			return err
		}
		if !bytes.Equal(vaultAccount.Mint, args.VaultMint) {
			return presale.ErrorInvalidVaultMint
		}

		payerTokenAccount, err := tx.GetTokenAccount(args.PayerTokenAccount)
		if err != nil {
			return err
		}
		if !bytes.Equal(payerTokenAccount.Mint, args.PayerMint) {
			return presale.ErrorInvalidPayerTokenAccount
		}
		if !bytes.Equal(payerTokenAccount.Owner, args.Buyer) {
			return token.ErrorOwnerMismatch
		}

		collectedFundsTokenAddress, err := token.GetAssociatedAccount(programConfig.CollectedFundsAccount, args.PayerMint)
		if err != nil {
			return err
		}
		collectedFundsTokenAccount, err := tx.GetTokenAccount(collectedFundsTokenAddress)
		if err != nil {
			return err
		}
		if !bytes.Equal(collectedFundsTokenAccount.Mint, args.PayerMint) {
			return token.ErrorMintMismatch
		}
		if !bytes.Equal(collectedFundsTokenAccount.Owner, programConfig.CollectedFundsAccount) {
			return token.ErrorOwnerMismatch
		}

		feed, err := getRegisteredFeed(tx, programConfig, args.PayerMint, args.ChainlinkFeed, args.ChainlinkProgram)
		if err != nil {
			return err
		}

		// Account validations precede the purchase gates, matching the
		// on-chain constraint-then-body evaluation order.
		if programConfig.HasPresaleEnded {
			return presale.ErrorPreSaleEnded
		}
		if args.PayerMintAmount == 0 {
			return presale.ErrorInvalidTokenAmount
		}

		payerMint, err := tx.GetMint(args.PayerMint)
		if err != nil {
			return err
		}
		vaultMint, err := tx.GetMint(args.VaultMint)
		if err != nil {
			return err
		}

		tokenAmount, err = pricing.QuoteSaleTokenAmount(
			args.PayerMintAmount,
			payerMint.Decimals,
			feed.LatestAnswer,
			feed.Decimals,
			programConfig.UsdPrice,
			programConfig.UsdDecimals,
			vaultMint.Decimals,
		)
		if err != nil {
			return presale.ErrorMathOverflow
		}

		if tokenAmount < e.minQuoteAmount.Get(ctx) {
			return presale.ErrorLessThanMinimalValue
		}
		if vaultAccount.Amount < tokenAmount {
			return presale.ErrorInsufficientVaultBalance
		}

		if err := tx.TransferTokens(args.PayerTokenAccount, collectedFundsTokenAddress, args.PayerMintAmount); err != nil {
			return err
		}

		// The buyer's vault is created lazily on first purchase.
		if !tx.HasAccount(userVaultAddress) {
			if err := tx.CreateTokenAccount(userVaultAddress, args.VaultMint, userVaultAddress); err != nil {
				return err
			}
		}

		return tx.TransferTokens(vaultAddress, userVaultAddress, tokenAmount)
	})
	if err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure buying tokens")
		return 0, err
	}

	log.WithField("token_amount", tokenAmount).Debug("purchase settled")
	return tokenAmount, nil
}

// ClaimArgs describes a claim of previously purchased sale tokens.
type ClaimArgs struct {
	Buyer            ed25519.PublicKey
	UserTokenAccount ed25519.PublicKey
	VaultMint        ed25519.PublicKey
}

// Claim moves the buyer's entire accumulated balance into their own token
// account. Claims only open once the sale has ended, and an empty vault has
// nothing to claim. It returns the amount claimed.
func (e *Engine) Claim(ctx context.Context, args *ClaimArgs) (uint64, error) {
	log := e.log.WithFields(logrus.Fields{
		"method": "Claim",
		"buyer":  base58.Encode(args.Buyer),
	})

	tracer := metrics.TraceMethodCall(ctx, "engine", "Claim")
	defer tracer.End()

	configAddress, _, err := presale.GetConfigAddress()
	if err != nil {
		return 0, err
	}
	userVaultAddress, _, err := presale.GetUserVaultAddress(&presale.GetUserVaultAddressArgs{
		Owner: args.Buyer,
	})
	if err != nil {
		return 0, err
	}

	var claimed uint64
	err = e.ledger.Execute(ctx, func(tx *ledger.Transaction) error {
		programConfig, err := getProgramConfig(tx, configAddress)
		if err != nil {
			return err
		}
		if !programConfig.HasPresaleEnded {
			return presale.ErrorPreSaleStillOn
		}

		userVaultAccount, err := tx.GetTokenAccount(userVaultAddress)
		if err != nil {
			if errors.Is(err, ledger.ErrAccountNotFound) {
				return presale.ErrorInsufficientVaultBalance
			}
			return err
		}
		if userVaultAccount.Amount == 0 {
			return presale.ErrorInsufficientVaultBalance
		}
		if !bytes.Equal(userVaultAccount.Mint, args.VaultMint) {
			return presale.ErrorInvalidVaultMint
		}

		userTokenAccount, err := tx.GetTokenAccount(args.UserTokenAccount)
		if err != nil {
			return err
		}
		if !bytes.Equal(userTokenAccount.Owner, args.Buyer) {
			return token.ErrorOwnerMismatch
		}

		claimed = userVaultAccount.Amount
		return tx.TransferTokens(userVaultAddress, args.UserTokenAccount, claimed)
	})
	if err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure claiming tokens")
		return 0, err
	}

	log.WithField("token_amount", claimed).Debug("tokens claimed")
	return claimed, nil
}

// WithdrawArgs describes an admin withdrawal of unsold sale tokens.
type WithdrawArgs struct {
	Admin                   ed25519.PublicKey
	DestinationTokenAccount ed25519.PublicKey
}

// Withdraw drains the remaining vault balance to the provided destination.
// Only the admin may call it. It returns the amount withdrawn.
func (e *Engine) Withdraw(ctx context.Context, args *WithdrawArgs) (uint64, error) {
	log := e.log.WithFields(logrus.Fields{
		"method": "Withdraw",
		"admin":  base58.Encode(args.Admin),
	})

	tracer := metrics.TraceMethodCall(ctx, "engine", "Withdraw")
	defer tracer.End()

	configAddress, _, err := presale.GetConfigAddress()
	if err != nil {
		return 0, err
	}
	vaultAddress, _, err := presale.GetVaultAddress()
	if err != nil {
		return 0, err
	}

	var withdrawn uint64
	err = e.ledger.Execute(ctx, func(tx *ledger.Transaction) error {
		programConfig, err := getProgramConfig(tx, configAddress)
		if err != nil {
			return err
		}
		if !bytes.Equal(programConfig.Admin, args.Admin) {
			return ErrUnauthorized
		}

		vaultAccount, err := tx.GetTokenAccount(vaultAddress)
		if err != nil {
			return err
		}
		if vaultAccount.Amount == 0 {
			return presale.ErrorInsufficientVaultBalance
		}

		withdrawn = vaultAccount.Amount
		return tx.TransferTokens(vaultAddress, args.DestinationTokenAccount, withdrawn)
	})
	if err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure withdrawing tokens")
		return 0, err
	}

	log.WithField("token_amount", withdrawn).Debug("vault withdrawn")
	return withdrawn, nil
}

// QuoteArgs describes a read-only price quote.
type QuoteArgs struct {
	PayerMint        ed25519.PublicKey
	ChainlinkFeed    ed25519.PublicKey
	ChainlinkProgram ed25519.PublicKey
	VaultMint        ed25519.PublicKey
	PayerMintAmount  uint64
}

// Quote returns the amount of sale tokens a payment is currently worth. It
// performs the same oracle validations as Buy but moves nothing.
func (e *Engine) Quote(ctx context.Context, args *QuoteArgs) (uint64, error) {
	tracer := metrics.TraceMethodCall(ctx, "engine", "Quote")
	defer tracer.End()

	configAddress, _, err := presale.GetConfigAddress()
	if err != nil {
		return 0, err
	}

	var tokenAmount uint64
	err = e.ledger.Execute(ctx, func(tx *ledger.Transaction) error {
		programConfig, err := getProgramConfig(tx, configAddress)
		if err != nil {
			return err
		}

		feed, err := getRegisteredFeed(tx, programConfig, args.PayerMint, args.ChainlinkFeed, args.ChainlinkProgram)
		if err != nil {
			return err
		}

		payerMint, err := tx.GetMint(args.PayerMint)
		if err != nil {
			return err
		}
		vaultMint, err := tx.GetMint(args.VaultMint)
		if err != nil {
			return err
		}

		tokenAmount, err = pricing.QuoteSaleTokenAmount(
			args.PayerMintAmount,
			payerMint.Decimals,
			feed.LatestAnswer,
			feed.Decimals,
			programConfig.UsdPrice,
			programConfig.UsdDecimals,
			vaultMint.Decimals,
		)
		if err != nil {
			return presale.ErrorMathOverflow
		}
		return nil
	})
	if err != nil {
		tracer.OnError(err)
		return 0, err
	}

	return tokenAmount, nil
}

// PayerQuoteArgs describes a read-only inverse quote: how much of the
// payment asset an exact amount of sale tokens costs.
type PayerQuoteArgs struct {
	PayerMint        ed25519.PublicKey
	ChainlinkFeed    ed25519.PublicKey
	ChainlinkProgram ed25519.PublicKey
	VaultMint        ed25519.PublicKey
	TokenAmount      uint64
}

// QuotePayerAmount returns the payment currently required to buy an exact
// amount of sale tokens. Like Quote, it moves nothing.
func (e *Engine) QuotePayerAmount(ctx context.Context, args *PayerQuoteArgs) (uint64, error) {
	tracer := metrics.TraceMethodCall(ctx, "engine", "QuotePayerAmount")
	defer tracer.End()

	configAddress, _, err := presale.GetConfigAddress()
	if err != nil {
		return 0, err
	}

	var payerAmount uint64
	err = e.ledger.Execute(ctx, func(tx *ledger.Transaction) error {
		programConfig, err := getProgramConfig(tx, configAddress)
		if err != nil {
			return err
		}

		feed, err := getRegisteredFeed(tx, programConfig, args.PayerMint, args.ChainlinkFeed, args.ChainlinkProgram)
		if err != nil {
			return err
		}

		payerMint, err := tx.GetMint(args.PayerMint)
		if err != nil {
			return err
		}
		vaultMint, err := tx.GetMint(args.VaultMint)
		if err != nil {
			return err
		}

		payerAmount, err = pricing.PayerAmountForSaleTokens(
			args.TokenAmount,
			vaultMint.Decimals,
			programConfig.UsdPrice,
			programConfig.UsdDecimals,
			feed.LatestAnswer,
			feed.Decimals,
			payerMint.Decimals,
		)
		if err != nil {
			return presale.ErrorMathOverflow
		}
		return nil
	})
	if err != nil {
		tracer.OnError(err)
		return 0, err
	}

	return payerAmount, nil
}

// GetDataFeed returns the oracle feed address registered for a payment
// asset.
func (e *Engine) GetDataFeed(ctx context.Context, asset ed25519.PublicKey) (ed25519.PublicKey, error) {
	configAddress, _, err := presale.GetConfigAddress()
	if err != nil {
		return nil, err
	}

	var dataFeed ed25519.PublicKey
	err = e.ledger.Execute(ctx, func(tx *ledger.Transaction) error {
		programConfig, err := getProgramConfig(tx, configAddress)
		if err != nil {
			return err
		}

		feedInfo, ok := programConfig.GetFeed(asset)
		if !ok {
			return presale.ErrorInvalidPriceFeed
		}
		dataFeed = feedInfo.DataFeed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dataFeed, nil
}

// GetConfig returns the current sale configuration.
func (e *Engine) GetConfig(ctx context.Context) (*presale.ProgramConfig, error) {
	configAddress, _, err := presale.GetConfigAddress()
	if err != nil {
		return nil, err
	}

	var programConfig *presale.ProgramConfig
	err = e.ledger.Execute(ctx, func(tx *ledger.Transaction) error {
		programConfig, err = getProgramConfig(tx, configAddress)
		return err
	})
	if err != nil {
		return nil, err
	}
	return programConfig, nil
}

// GetUserVaultBalance returns the amount of sale tokens a buyer has
// purchased but not yet claimed.
func (e *Engine) GetUserVaultBalance(ctx context.Context, buyer ed25519.PublicKey) (uint64, error) {
	userVaultAddress, _, err := presale.GetUserVaultAddress(&presale.GetUserVaultAddressArgs{
		Owner: buyer,
	})
	if err != nil {
		return 0, err
	}

	balance, err := e.ledger.GetTokenBalance(userVaultAddress)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return 0, nil
	}
	return balance, err
}

func getProgramConfig(tx *ledger.Transaction, address ed25519.PublicKey) (*presale.ProgramConfig, error) {
	account, err := tx.GetAccount(address)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	if !bytes.Equal(account.Owner, presale.PROGRAM_ID) {
		return nil, presale.ErrInvalidProgram
	}

	var programConfig presale.ProgramConfig
	if err := programConfig.Unmarshal(account.Data); err != nil {
		return nil, err
	}
	return &programConfig, nil
}

// getRegisteredFeed validates the provided oracle accounts against the
// configuration and reads the current round for the payment asset.
func getRegisteredFeed(
	tx *ledger.Transaction,
	programConfig *presale.ProgramConfig,
	payerMint ed25519.PublicKey,
	chainlinkFeed ed25519.PublicKey,
	chainlinkProgram ed25519.PublicKey,
) (*chainlink.Feed, error) {
	if !bytes.Equal(chainlinkProgram, programConfig.ChainlinkProgram) {
		return nil, presale.ErrorInvalidChainlinkProgram
	}

	feedInfo, ok := programConfig.GetFeed(payerMint)
	if !ok || !bytes.Equal(feedInfo.DataFeed, chainlinkFeed) {
		return nil, presale.ErrorInvalidChainlinkFeed
	}

	feed, err := oracle.GetFeed(tx, chainlinkFeed)
	if err != nil {
		return nil, presale.ErrorInvalidPriceFeed
	}

	return feed, nil
}
