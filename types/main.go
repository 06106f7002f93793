package types

type MemberStatus = string

var (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusInactive  MemberStatus = "INACTIVE"
	MemberStatusSuspended MemberStatus = "SUSPENDED"
)

// ClubTier is ordered: NONE < SILVER < GOLD < DIAMOND.
type ClubTier string

const (
	ClubTierNone    ClubTier = "NONE"
	ClubTierSilver  ClubTier = "SILVER"
	ClubTierGold    ClubTier = "GOLD"
	ClubTierDiamond ClubTier = "DIAMOND"
)

var clubTierOrder = map[ClubTier]int{
	ClubTierNone:    0,
	ClubTierSilver:  1,
	ClubTierGold:    2,
	ClubTierDiamond: 3,
}

func (t ClubTier) Order() int {
	return clubTierOrder[t]
}

func (t ClubTier) Valid() bool {
	_, ok := clubTierOrder[t]
	return ok
}

func (t ClubTier) HigherThan(other ClubTier) bool {
	return t.Order() > other.Order()
}

type ActivityState = string

var (
	ActivityStatePending   ActivityState = "PENDING"
	ActivityStateActive    ActivityState = "ACTIVE"
	ActivityStateCompleted ActivityState = "COMPLETED"
	ActivityStateCancelled ActivityState = "CANCELLED"
)

// QualifyingActivityStates count toward business volume.
var QualifyingActivityStates = []ActivityState{ActivityStateActive, ActivityStateCompleted}

type RewardType = string

var (
	RewardTypeOneTimeBonus      RewardType = "ONE_TIME_BONUS"
	RewardTypeMonthlyLeadership RewardType = "MONTHLY_LEADERSHIP"
	RewardTypeClubAchievement   RewardType = "CLUB_ACHIEVEMENT"
	RewardTypeClubRoyalty       RewardType = "CLUB_ROYALTY"
)

type RewardState = string

var (
	RewardStatePending RewardState = "PENDING"
	RewardStatePaid    RewardState = "PAID"
)

type EPinState = string

var (
	EPinStateAvailable EPinState = "AVAILABLE"
	EPinStateUsed      EPinState = "USED"
	EPinStateExpired   EPinState = "EXPIRED"
	EPinStateBlocked   EPinState = "BLOCKED"
)

type EPinSource = string

var (
	EPinSourceWallet EPinSource = "WALLET"
	EPinSourceAdmin  EPinSource = "ADMIN"
)

type LedgerKind = string

var (
	LedgerKindCredit LedgerKind = "CREDIT"
	LedgerKindDebit  LedgerKind = "DEBIT"
)

type LedgerCategory = string

var (
	CategoryRankBonus       LedgerCategory = "RANK_BONUS"
	CategoryLeadershipBonus LedgerCategory = "LEADERSHIP_BONUS"
	CategoryClubAchievement LedgerCategory = "CLUB_ACHIEVEMENT"
	CategoryClubRoyalty     LedgerCategory = "CLUB_ROYALTY"
	CategoryEPinGeneration  LedgerCategory = "EPIN_GENERATION"
	CategoryEPinActivation  LedgerCategory = "EPIN_ACTIVATION"
)

// Period is a calendar month.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}
